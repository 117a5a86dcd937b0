package category

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestMap(t *testing.T) {
	cases := []struct {
		source string
		expect string
	}{
		{"치킨,닭강정", "chicken"},
		{"피자", "pizza"},
		{"한식", "korean"},
		{"중식", "chinese"},
		{"중국집", "chinese"},
		{"일식", "japanese"},
		{"일본음식점", "japanese"},
		{"양식", "western"},
		{"분식", "snack"},
		{"카페", "cafe"},
		{"디저트", "cafe"},
		{"패스트푸드", "fastfood"},
		{"햄버거", "fastfood"},
		// substring match inside a longer source string
		{"이디야 카페/디저트", "cafe"},
		// unknown keywords fall through to no suggestion, not an error
		{"통닭집", ""},
		{"세탁소", ""},
		{"", ""},
	}

	for _, c := range cases {
		require.Equal(t, c.expect, Map(c.source), "source %q", c.source)
	}
}

func TestMapPriorityOrder(t *testing.T) {
	// 한식 appears before 카페 in the table, so a string containing both
	// resolves to korean deterministically.
	require.Equal(t, "korean", Map("한식 카페"))
	// 카페 appears before 디저트, so both together resolve through 카페.
	require.Equal(t, "cafe", Map("디저트 카페"))
}

func TestCategoryTable(t *testing.T) {
	all := All()
	require.Len(t, all, 9)
	require.Equal(t, "chicken", all[0].Value)

	// every mapper target must be a member of the category set
	for _, m := range keywordTable {
		require.True(t, IsValid(m.code), "mapper target %q not in category table", m.code)
	}

	require.False(t, IsValid("sushi"))
	require.False(t, IsValid(""))
}
