package validator

import (
	"bytes"
	"log/slog"
	"math/rand"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/vcfcheck"
	. "github.com/ava12/vcfcheck/internal/test"
	"github.com/ava12/vcfcheck/meta"
	"github.com/ava12/vcfcheck/scanner"
)

const (
	fileformatLine = "##fileformat=VCFv4.1\n"
	headerLine     = "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"
	minimalVCF     = fileformatLine + headerLine
)

const sampleVCF = `##fileformat=VCFv4.1
##fileDate=20090805
##contig=<ID=20,length=62435964,assembly=B36>
##INFO=<ID=NS,Number=1,Type=Integer,Description="Number of Samples With Data">
##INFO=<ID=DP,Number=1,Type=Integer,Description="Total Depth">
##INFO=<ID=AF,Number=A,Type=Float,Description="Allele Frequency">
##INFO=<ID=DB,Number=0,Type=Flag,Description="dbSNP membership, build 129">
##FILTER=<ID=q10,Description="Quality below 10">
##ALT=<ID=DEL,Description="Deletion">
##FORMAT=<ID=GT,Number=1,Type=String,Description="Genotype">
##FORMAT=<ID=GQ,Number=1,Type=Integer,Description="Genotype Quality">
#CHROM	POS	ID	REF	ALT	QUAL	FILTER	INFO	FORMAT	NA00001	NA00002
20	14370	rs6054257	G	A	29	PASS	NS=3;DP=14;AF=0.5;DB	GT:GQ	0|0:48	1|0:48
20	17330	.	T	A	3	q10	NS=3;DP=11;AF=0.017	GT:GQ	0|0:49	0/1:3
20	1230237	.	T	<DEL>	47	PASS	NS=3;DP=13	GT:GQ	.	0/1:10
`

func validate(text string, opts ...Option) *Session {
	s := New(opts...)
	s.Submit([]byte(text))
	s.Finish()
	return s
}

func TestMinimalFile(t *testing.T) {
	s := validate(minimalVCF, WithCheckEvidence(false))
	ExpectDiagnostics(t, nil, s.Errors())
	assert.Empty(t, s.Warnings())
	assert.True(t, s.IsValid())
	assert.NotNil(t, s.Samples())
	assert.Empty(t, s.Samples())
	assert.Equal(t, SupportedVersion, s.Version())
	assert.Equal(t, 0, s.Records())
	assert.True(t, s.Finished())
}

func TestSampleFile(t *testing.T) {
	s := validate(sampleVCF, WithCheckEvidence(true))
	ExpectDiagnostics(t, nil, s.Errors())
	assert.Empty(t, s.Warnings())
	assert.True(t, s.IsValid())
	assert.Equal(t, []string{"NA00001", "NA00002"}, s.Samples())
	assert.Equal(t, 3, s.Records())
	assert.Equal(t, 16, s.Line())
	assert.Equal(t, []string{"NS", "DP", "AF", "DB"}, s.Registry().IDs(meta.INFO))
	assert.True(t, s.Registry().GenotypesPresent())
	assert.True(t, s.Registry().AlleleFrequenciesPresent())
	assert.False(t, s.Registry().AlleleCountPresent())
}

func TestMissingFileformat(t *testing.T) {
	s := New()
	s.Submit([]byte(headerLine))
	require.NotEmpty(t, s.Errors())
	assert.Equal(t, vcfcheck.CatFileformat, s.Errors()[0].Category)
	assert.Equal(t, 1, s.Errors()[0].Line)
	assert.Equal(t, scanner.MetaSection, s.Section())
	assert.False(t, s.IsValid())

	s.Finish()
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatFileformat, Line: 1}, {Category: vcfcheck.CatHeader, Line: 2}}, s.Errors())
}

func TestChunkingIdempotence(t *testing.T) {
	text := sampleVCF +
		"20\t100\t.\tA\tC\t.\tHighQual\tXX=1\tGT:DP\t0:1\t1:2\n" +
		"20\t0\t.\tA\tC\t.\t.\t.\tGT\t0\t0\n" +
		"##late=1\n" +
		"20\t101\t.\tA\t<INS>\t.\t.\t.\tGT\t0\t1"
	whole := validate(text, WithCheckEvidence(true))
	require.NotEmpty(t, whole.Errors())

	rnd := rand.New(rand.NewSource(7))
	for _, maxSize := range []int{1, 2, 3, 7, 64, 1000} {
		s := New(WithCheckEvidence(true))
		for rest := []byte(text); len(rest) > 0; {
			n := 1
			if maxSize > 1 {
				n = rnd.Intn(maxSize) + 1
			}
			if n > len(rest) {
				n = len(rest)
			}
			s.Submit(rest[:n])
			s.Submit(nil)
			rest = rest[n:]
		}
		s.Finish()

		assert.Equal(t, whole.Errors(), s.Errors(), "chunk size %d", maxSize)
		assert.Equal(t, whole.Warnings(), s.Warnings(), "chunk size %d", maxSize)
		assert.Equal(t, whole.Samples(), s.Samples(), "chunk size %d", maxSize)
		assert.Equal(t, whole.Records(), s.Records(), "chunk size %d", maxSize)
		assert.Equal(t, whole.Line(), s.Line(), "chunk size %d", maxSize)
		assert.Equal(t, whole.Registry().Entries(), s.Registry().Entries(), "chunk size %d", maxSize)
	}
}

func TestLineCounting(t *testing.T) {
	texts := []string{minimalVCF, sampleVCF, sampleVCF + "garbage\n\n", "\n##x\n"}
	for _, text := range texts {
		s := validate(text)
		assert.Equal(t, strings.Count(text, "\n"), s.Line()-1, "%q", text)
	}
}

func TestUndeclaredFilter(t *testing.T) {
	text := fileformatLine +
		"##FILTER=<ID=LowQual,Description=\"Low quality\">\n" +
		headerLine +
		"1\t1\t.\tA\tC\t.\tHighQual\t.\n" +
		"1\t2\t.\tA\tC\t.\tLowQual\t.\n" +
		"1\t3\t.\tA\tC\t.\tPASS\t.\n" +
		"1\t4\t.\tA\tC\t.\tLowQual;PASS\t.\n"
	s := validate(text)
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatUndeclared, Line: 4}}, s.Errors())
	e := s.Errors()[0]
	assert.Contains(t, e.Message, `"HighQual"`)
	assert.Equal(t, 7, e.Col)
	assert.Equal(t, vcfcheck.CatUndeclared.Code(), e.Code)
	assert.Equal(t, 4, s.Records())
	assert.False(t, s.IsValid())
}

func TestUndeclaredIdentifiers(t *testing.T) {
	samples := []struct {
		record string
		id     string
	}{
		{"1\t1\t.\tA\tC\t.\t.\tXX=1\n", "INFO \"XX\""},
		{"1\t1\t.\tA\tC\t.\t.\tDB\n", "INFO \"DB\""},
		{"1\t1\t.\tA\t<DEL>\t.\t.\t.\n", "ALT \"DEL\""},
		{"1\t1\t.\tA\tC\t.\tq10\t.\n", "FILTER \"q10\""},
	}

	for _, sample := range samples {
		s := validate(minimalVCF + sample.record)
		ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatUndeclared, Line: 3}}, s.Errors())
		assert.Contains(t, s.Errors()[0].Message, sample.id)
	}

	s := validate(fileformatLine + "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"1\t1\t.\tA\tC\t.\t.\t.\tGT:DP\t0:1\n")
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatUndeclared, Line: 3}}, s.Errors())
	assert.Contains(t, s.Errors()[0].Message, "FORMAT \"DP\"")
}

func TestUndeclaredContig(t *testing.T) {
	text := fileformatLine +
		"##contig=<ID=20,length=62435964>\n" +
		headerLine +
		"20\t1\t.\tA\tC\t.\t.\t.\n" +
		"chr20\t2\t.\tA\tC\t.\t.\t.\n"

	s := validate(text)
	ExpectDiagnostics(t, nil, s.Errors())

	s = validate(text, WithCheckContigs(true))
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatUndeclared, Line: 5}}, s.Errors())
	e := s.Errors()[0]
	assert.Contains(t, e.Message, `contig "chr20"`)
	assert.Equal(t, 1, e.Col)
	assert.Equal(t, 2, s.Records())
}

func TestSemanticAndSyntaxErrorsOnSameLine(t *testing.T) {
	s := validate(minimalVCF + "1\t1\t.\tA\tC\t.\tHighQual\t.x\n")
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatUndeclared, Line: 3}, {Category: vcfcheck.CatInfo, Line: 3}}, s.Errors())
	assert.Equal(t, 0, s.Records())
}

func TestErrorRecovery(t *testing.T) {
	text := fileformatLine +
		"##BADLINE\n" +
		"##INFO=<ID=DP,Number=1,Type=Integer,Description=\"Total Depth\">\n" +
		headerLine +
		"1\t1\t.\tA\tC\t.\t.\tDP=1\n"
	s := validate(text)
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatMeta, Line: 2}}, s.Errors())
	assert.True(t, s.Registry().IsWellDefined(meta.INFO, "DP"))
	assert.Equal(t, 1, s.Records())
}

func TestEvidence(t *testing.T) {
	withGT := fileformatLine +
		"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"1\t1\t.\tA\tC\t.\t.\t.\tGT\t0\n"
	s := validate(withGT, WithCheckEvidence(true))
	ExpectDiagnostics(t, nil, s.Errors())
	assert.True(t, s.IsValid())

	withAF := fileformatLine +
		"##INFO=<ID=AF,Number=A,Type=Float,Description=\"Allele Frequency\">\n" +
		headerLine +
		"1\t1\t.\tA\tC\t.\t.\tAF=0.5\n"
	s = validate(withAF, WithCheckEvidence(true))
	ExpectDiagnostics(t, nil, s.Errors())

	s = validate(minimalVCF+"1\t1\t.\tA\tC\t.\t.\tAC=1\n", WithCheckEvidence(true))
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatUndeclared, Line: 3}}, s.Errors())

	without := minimalVCF + "1\t1\t.\tA\tC\t.\t.\t.\n"
	s = validate(without, WithCheckEvidence(true))
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatNoEvidence, Line: 4}}, s.Errors())
	assert.Equal(t, meta.NoEvidenceMessage, s.Errors()[0].Message)
	assert.False(t, s.IsValid())

	s = validate(without, WithCheckEvidence(false))
	ExpectDiagnostics(t, nil, s.Errors())
}

func TestRegistration(t *testing.T) {
	text := fileformatLine +
		"##INFO=<ID=DP,Number=1,Type=Integer,Description=\"Total Depth\">\n" +
		headerLine
	first := validate(text)
	second := validate(text)

	for _, s := range []*Session{first, second} {
		r := s.Registry()
		assert.True(t, r.IsWellDefined(meta.INFO, "DP"))
		assert.False(t, r.IsWellDefined(meta.FORMAT, "DP"))
		assert.Equal(t, []string{"DP"}, r.IDs(meta.INFO))
	}
	assert.Equal(t, first.Registry().Entries(), second.Registry().Entries())

	entry := first.Registry().Entries()[0]
	descr, _ := entry.Attr("Description")
	assert.Equal(t, "Total Depth", descr)
	assert.Equal(t, 2, entry.Line)
}

func TestDuplicateDeclaration(t *testing.T) {
	decl := "##INFO=<ID=DP,Number=1,Type=Integer,Description=\"Total Depth\">\n"
	s := validate(fileformatLine + decl + decl + headerLine)
	ExpectDiagnostics(t, nil, s.Errors())
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatMeta, Line: 3}}, s.Warnings())
	assert.Equal(t, vcfcheck.SeverityWarning, s.Warnings()[0].Severity)
	assert.Equal(t, []string{"DP"}, s.Registry().IDs(meta.INFO))
	assert.Equal(t, 2, s.Registry().Count(meta.INFO, "DP"))
	assert.True(t, s.IsValid())
}

func TestWarnings(t *testing.T) {
	s := validate("##fileformat=VCFv4.2\n" + headerLine)
	ExpectDiagnostics(t, nil, s.Errors())
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatFileformat, Line: 1}}, s.Warnings())
	assert.Equal(t, "VCFv4.2", s.Version())
	assert.True(t, s.IsValid())

	s = validate(fileformatLine + "#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\tS1\n")
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatHeader, Line: 2}}, s.Warnings())
	assert.Equal(t, []string{"S1", "S1"}, s.Samples())
	assert.True(t, s.IsValid())
}

func TestMaxErrors(t *testing.T) {
	text := minimalVCF + strings.Repeat("1\t0\t.\tA\tC\t.\t.\t.\n", 5)
	s := validate(text, WithMaxErrors(2))
	ExpectDiagnostics(t, []Diag{{Category: vcfcheck.CatPos, Line: 3}, {Category: vcfcheck.CatPos, Line: 4}}, s.Errors())
	assert.Equal(t, 3, s.Dropped())
	assert.False(t, s.IsValid())

	s = validate(text)
	assert.Len(t, s.Errors(), 5)
	assert.Equal(t, 0, s.Dropped())
}

func TestSourceName(t *testing.T) {
	s := validate(minimalVCF+"1\t0\t.\tA\tC\t.\t.\t.\n", WithSourceName("test.vcf"))
	require.Len(t, s.Errors(), 1)
	assert.Equal(t, "test.vcf", s.Errors()[0].SourceName)
	assert.Equal(t, "test.vcf", s.SourceName())
	assert.Equal(t, "test.vcf: line 4, 0 records, 1 errors, 0 warnings", s.String())
}

func TestCallsAfterFinish(t *testing.T) {
	s := validate(minimalVCF)
	s.Submit([]byte("1\t0\t.\tA\tC\t.\t.\t.\n"))
	s.Finish()
	assert.Empty(t, s.Errors())
	assert.Equal(t, 3, s.Line())
}

type countingHandler struct {
	scanner.NopHandler
	records int
	fields  int
	refs    []string
}

func (h *countingHandler) Field(scanner.Field, []byte) {
	h.fields++
}

func (h *countingHandler) Reference(kind meta.Kind, id []byte) {
	h.refs = append(h.refs, kind.String()+":"+string(id))
}

func (h *countingHandler) RecordEnd() {
	h.records++
}

func TestHandlerForwarding(t *testing.T) {
	h := &countingHandler{}
	s := validate(sampleVCF, WithHandler(h))
	assert.Equal(t, 3, h.records)
	assert.Equal(t, 3*11, h.fields)
	assert.Contains(t, h.refs, "FILTER:PASS")
	assert.Contains(t, h.refs, "FORMAT:GT")
	assert.Contains(t, h.refs, "ALT:DEL")
	assert.Equal(t, s.Records(), h.records)
}

func TestErrorPolicyForwarding(t *testing.T) {
	var sections []scanner.Section
	var cats []vcfcheck.Category
	policy := scanner.ErrorPolicyFunc(func(ctx scanner.Context, section scanner.Section, cat vcfcheck.Category, message string) {
		sections = append(sections, section)
		cats = append(cats, cat)
	})

	s := validate(minimalVCF+"1\t1\t.\tA\tC\t.\tHighQual\t.\n1\t0\t.\tA\tC\t.\t.\t.\n", WithErrorPolicy(policy))
	assert.Equal(t, []vcfcheck.Category{vcfcheck.CatUndeclared, vcfcheck.CatPos}, cats)
	assert.Equal(t, []scanner.Section{scanner.BodySection, scanner.BodySection}, sections)
	assert.Equal(t, cats, Categories(s.Errors()))
}

func TestLogPolicy(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, nil))
	validate(minimalVCF+"1\t0\t.\tA\tC\t.\t.\t.\n", WithSourceName("in.vcf"), WithErrorPolicy(LogPolicy(logger)))

	out := buf.String()
	assert.Contains(t, out, "level=WARN")
	assert.Contains(t, out, "source=in.vcf")
	assert.Contains(t, out, "line=3")
	assert.Contains(t, out, "category=pos")
	assert.Contains(t, out, "section=body")
}

func TestTokenCounter(t *testing.T) {
	tc := &TokenCounter{}
	validate(minimalVCF, WithParsePolicy(tc))
	assert.Equal(t, 1, tc.Tokens)

	tc = &TokenCounter{}
	validate(minimalVCF+"1\t1\t.\tA\tC\t.\t.\t.\n", WithParsePolicy(tc))
	assert.Equal(t, 9, tc.Tokens)
}

func TestDebugLogging(t *testing.T) {
	buf := &bytes.Buffer{}
	logger := slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
	validate(minimalVCF, WithLogger(logger), WithSourceName("in.vcf"))

	out := buf.String()
	assert.Contains(t, out, "section changed")
	assert.Contains(t, out, "to=body")
	assert.Contains(t, out, "validation finished")
	assert.Contains(t, out, "valid=true")
}
