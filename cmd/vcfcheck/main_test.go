package main

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/klauspost/compress/gzip"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ava12/vcfcheck/internal/report"
)

const (
	validVCF = "##fileformat=VCFv4.1\n" +
		"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tS1\n" +
		"1\t1\t.\tA\tC\t.\t.\t.\tGT\t0\n"
	invalidVCF = "##fileformat=VCFv4.1\n" +
		"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n" +
		"1\t0\t.\tA\tC\t.\t.\t.\n"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func run(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	stdout, stderr := &bytes.Buffer{}, &bytes.Buffer{}
	cmd := newRootCmd(strings.NewReader(stdin), stdout, stderr)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func TestValidateFiles(t *testing.T) {
	dir := t.TempDir()
	good := writeFile(t, dir, "good.vcf", validVCF)
	bad := writeFile(t, dir, "bad.vcf", invalidVCF)

	out, _, err := run(t, "", "validate", good)
	require.NoError(t, err)
	assert.Contains(t, out, good+": valid (4 lines, 1 record, 1 sample, 0 errors, 0 warnings)")

	out, _, err = run(t, "", "validate", "--color", "never", good, bad)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, bad+": invalid")
	assert.Contains(t, out, bad+":3:2: pos error: Position must be a positive number")
}

func TestValidateStdin(t *testing.T) {
	out, _, err := run(t, validVCF, "validate")
	require.NoError(t, err)
	assert.Contains(t, out, "stdin: valid")

	out, _, err = run(t, invalidVCF, "validate", "-", "--chunk-size", "1")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "stdin:3:2: pos error")
}

func TestValidateGzip(t *testing.T) {
	buf := &bytes.Buffer{}
	zw := gzip.NewWriter(buf)
	_, err := zw.Write([]byte(validVCF))
	require.NoError(t, err)
	require.NoError(t, zw.Close())

	path := writeFile(t, t.TempDir(), "good.vcf.gz", buf.String())
	out, _, err := run(t, "", "validate", path)
	require.NoError(t, err)
	assert.Contains(t, out, ": valid")
}

func TestJSONOutput(t *testing.T) {
	out, _, err := run(t, invalidVCF, "validate", "--format", "json")
	assert.ErrorIs(t, err, errInvalid)

	var results []report.Result
	require.NoError(t, json.Unmarshal([]byte(out), &results))
	require.Len(t, results, 1)
	assert.False(t, results[0].Valid)
	require.Len(t, results[0].Errors, 1)
	assert.Equal(t, "pos", results[0].Errors[0].Category)
}

func TestConfigFile(t *testing.T) {
	dir := t.TempDir()
	cfg := writeFile(t, dir, "vcfcheck.toml", "format = \"yaml\"\ncheck_evidence = true\n")

	out, _, err := run(t, minimalNoEvidence, "validate", "--config", cfg)
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, "category: no-evidence")

	out, _, err = run(t, minimalNoEvidence, "--config", cfg, "validate", "--check-evidence=false", "-f", "text")
	require.NoError(t, err)
	assert.Contains(t, out, "stdin: valid")
}

func TestCheckContigs(t *testing.T) {
	out, _, err := run(t, validVCF, "validate", "--check-contigs", "-f", "text")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, out, `contig "1" is not declared`)

	dir := t.TempDir()
	cfg := writeFile(t, dir, "vcfcheck.yaml", "check_contigs: true\n")
	_, _, err = run(t, validVCF, "--config", cfg, "validate", "--check-contigs=false")
	require.NoError(t, err)
}

const minimalNoEvidence = "##fileformat=VCFv4.1\n#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"

func TestBadSettings(t *testing.T) {
	_, _, err := run(t, validVCF, "validate", "--chunk-size", "0")
	assert.ErrorContains(t, err, "chunk size")

	_, _, err = run(t, validVCF, "validate", "--format", "xml")
	assert.ErrorContains(t, err, "output format")

	_, _, err = run(t, validVCF, "--config", filepath.Join(t.TempDir(), "missing.yaml"), "validate")
	assert.ErrorContains(t, err, "reading config")
}

func TestMissingFile(t *testing.T) {
	out, stderr, err := run(t, "", "validate", "--log-format", "json", filepath.Join(t.TempDir(), "missing.vcf"))
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, stderr, `"msg":"validation failed"`)
	assert.Contains(t, stderr, `"run_id":`)
	assert.NotContains(t, out, "valid")
}

func TestDebugLogging(t *testing.T) {
	_, stderr, err := run(t, invalidVCF, "validate", "--log-level", "debug")
	assert.ErrorIs(t, err, errInvalid)
	assert.Contains(t, stderr, "configuration loaded")
	assert.Contains(t, stderr, "category=pos")
	assert.Contains(t, stderr, "scan statistics")
	assert.Contains(t, stderr, "file validated")
}

func TestMetrics(t *testing.T) {
	path := filepath.Join(t.TempDir(), "vcfcheck.prom")
	_, _, err := run(t, validVCF, "validate", "--metrics-file", path)
	require.NoError(t, err)
	content, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(content), `vcfcheck_files_total{result="valid"} 1`)

	out, _, err := run(t, validVCF, "validate", "--metrics-file", "-")
	require.NoError(t, err)
	assert.Contains(t, out, "vcfcheck_records_total 1")
}

func TestRuns(t *testing.T) {
	dir := t.TempDir()
	db := filepath.Join(dir, "runs.db")
	good := writeFile(t, dir, "good.vcf", validVCF)
	bad := writeFile(t, dir, "bad.vcf", invalidVCF)

	_, _, err := run(t, "", "validate", "--db", db, good, bad)
	assert.ErrorIs(t, err, errInvalid)

	out, _, err := run(t, "", "runs", "--db", db, "-v")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 3)
	assert.Contains(t, out, good)
	assert.Contains(t, out, bad)
	assert.Contains(t, out, "    3:2: pos error: Position must be a positive number")

	_, _, err = run(t, "", "validate", "--db", db, bad, bad)
	assert.ErrorIs(t, err, errInvalid)
	out, _, err = run(t, "", "runs", "--db", db, "-v")
	require.NoError(t, err)
	lines = strings.Split(strings.TrimRight(out, "\n"), "\n")
	require.Len(t, lines, 7)
	assert.Equal(t, 3, strings.Count(out, "3:2: pos error"))

	_, _, err = run(t, "", "runs")
	assert.ErrorContains(t, err, "--db")
}
