package scanner

type charClass uint16

const (
	clPrint       charClass = 1 << iota // 0x21-0x7E
	clText                              // 0x20-0x7E
	clDigit                             // 0-9
	clBase                              // A C G T N, either case
	clMetaKey                           // meta and attribute keys: letters, digits, _ . -
	clFieldKey                          // INFO and FORMAT keys: letters, digits, _ .
	clBareValue                         // unquoted attribute value: text except , > "
	clIDChar                            // ID tokens: printable except ;
	clSymbolic                          // symbolic allele id: printable except < > ,
	clMateChrom                         // breakend mate chromosome: printable except : [ ] ,
	clSampleValue                       // sample value: printable except :
)

var classes [256]charClass

func init() {
	for c := 0x20; c <= 0x7e; c++ {
		classes[c] |= clText
		if c != ',' && c != '>' && c != '"' {
			classes[c] |= clBareValue
		}
		if c == ' ' {
			continue
		}

		classes[c] |= clPrint
		if c != ';' {
			classes[c] |= clIDChar
		}
		if c != '<' && c != '>' && c != ',' {
			classes[c] |= clSymbolic
		}
		if c != ':' && c != '[' && c != ']' && c != ',' {
			classes[c] |= clMateChrom
		}
		if c != ':' {
			classes[c] |= clSampleValue
		}
	}

	for c := '0'; c <= '9'; c++ {
		classes[c] |= clDigit | clMetaKey | clFieldKey
	}
	for c := 'A'; c <= 'Z'; c++ {
		classes[c] |= clMetaKey | clFieldKey
		classes[c+'a'-'A'] |= clMetaKey | clFieldKey
	}
	for _, c := range "_." {
		classes[c] |= clMetaKey | clFieldKey
	}
	classes['-'] |= clMetaKey
	for _, c := range "ACGTNacgtn" {
		classes[c] |= clBase
	}
}

func is(c byte, cl charClass) bool {
	return classes[c]&cl != 0
}
