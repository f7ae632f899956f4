package tabular

import (
	"bufio"
	"io"
	"strings"
)

// PriorityList is an ordered sequence of distinct tokens defining a
// total preference order. Index 0 is the highest preference. Tokens not
// present in the list are unranked and sort after every ranked token.
type PriorityList []string

// Rank returns the zero-based position of token in the list. The second
// return value reports whether the token is present; absent tokens get
// len(list), which sorts after every ranked value.
func (p PriorityList) Rank(token string) (int, bool) {
	for i, t := range p {
		if t == token {
			return i, true
		}
	}
	return len(p), false
}

// ParsePriorityList reads one token per line, highest preference
// first. Blank lines and lines starting with # are skipped.
func ParsePriorityList(r io.Reader) (PriorityList, error) {
	var list PriorityList
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		token := strings.TrimSpace(scanner.Text())
		if token == "" || strings.HasPrefix(token, "#") {
			continue
		}
		list = append(list, token)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	return list, nil
}

// DefaultCountryOrder is the built-in preference order for country
// codes, UK first, then continental Europe, the Americas, Asia and
// Oceania. It can be replaced with any PriorityList at the call site.
var DefaultCountryOrder = PriorityList{
	"UK",
	"AU",
	"BEL",
	"CRO",
	"CZ",
	"DEN",
	"FI",
	"FRA",
	"GER",
	"GR",
	"IRE",
	"IS",
	"ITA",
	"NL",
	"NOR",
	"POL",
	"POR",
	"SCA",
	"SPA",
	"SWE",
	"SWI",
	"RUS",
	"TUR",
	"YUG",
	"USA",
	"CAN",
	"ARG",
	"BRA",
	"CHI",
	"COL",
	"CR",
	"GUA",
	"MEX",
	"PAR",
	"PER",
	"SV",
	"VEN",
	"JAP",
	"IND",
	"HK",
	"KOR",
	"MAL",
	"PHI",
	"SEA",
	"SIN",
	"TAI",
	"THA",
	"ISR",
	"AUS",
	"NZ",
	"SA",
	"ANG",
	"RHO",
	"ZIM",
	"EU",
}
