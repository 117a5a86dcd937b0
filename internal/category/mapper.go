package category

import "strings"

type keywordMapping struct {
	keyword string
	code    string
}

// keywordTable maps Naver category keywords to destination category codes.
// Order matters: a source string may contain several keywords ("카페/디저트"
// contains both 카페 and 디저트) and the first entry that matches wins, so the
// table doubles as the priority order.
var keywordTable = []keywordMapping{
	{"치킨", "chicken"},
	{"피자", "pizza"},
	{"한식", "korean"},
	{"중식", "chinese"},
	{"중국집", "chinese"},
	{"일식", "japanese"},
	{"일본음식", "japanese"},
	{"양식", "western"},
	{"분식", "snack"},
	{"카페", "cafe"},
	{"디저트", "cafe"},
	{"패스트푸드", "fastfood"},
	{"햄버거", "fastfood"},
}

// Map returns the destination category code suggested for a free-text Naver
// category, or "" when no keyword matches. The suggestion is advisory: the
// operator picks the final category before onboarding.
func Map(sourceCategory string) string {
	if sourceCategory == "" {
		return ""
	}
	for _, m := range keywordTable {
		if strings.Contains(sourceCategory, m.keyword) {
			return m.code
		}
	}
	return ""
}
