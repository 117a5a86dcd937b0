package store

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/vroong/store-onboarding-service/internal/crawler"
)

func TestNormalizeRequiresNameAndAddress(t *testing.T) {
	_, _, err := Normalize(&crawler.RawListing{Address: "서울 강남구"})
	require.ErrorIs(t, err, ErrExtractionIncomplete)

	_, _, err = Normalize(&crawler.RawListing{Name: "교촌치킨"})
	require.ErrorIs(t, err, ErrExtractionIncomplete)

	// whitespace-only counts as missing
	_, _, err = Normalize(&crawler.RawListing{Name: "  ", Address: "서울"})
	require.ErrorIs(t, err, ErrExtractionIncomplete)

	_, _, err = Normalize(&crawler.RawListing{Name: "교촌치킨", Address: "서울"})
	require.NoError(t, err)
}

func TestNormalizeOptionalFields(t *testing.T) {
	info, dropped, err := Normalize(&crawler.RawListing{
		Name:     "교촌치킨",
		Address:  "서울 강남구",
		Phone:    "02-1234-5678",
		Category: "치킨,닭강정",
	})
	require.NoError(t, err)
	require.Zero(t, dropped)

	require.NotNil(t, info.Phone)
	require.Equal(t, "02-1234-5678", *info.Phone)
	require.NotNil(t, info.Category)
	require.Equal(t, "치킨,닭강정", *info.Category)
	require.Nil(t, info.BusinessHours)
	require.Nil(t, info.ImageURL)
	require.Empty(t, info.Menus)
}

func TestNormalizeDropsMalformedMenus(t *testing.T) {
	info, dropped, err := Normalize(&crawler.RawListing{
		Name:    "분식왕",
		Address: "서울 마포구",
		Menus: []crawler.RawMenu{
			{Name: "떡볶이", Price: "5,000원"},
			{Name: "이름없는가격", Price: "변동"},
			{Name: "순대", Price: "6000"},
			{Name: "마이너스", Price: "-1,000원"},
			{Name: "", Price: "3,000원"},
			{Name: "공짜전", Price: "0원"},
		},
	})
	require.NoError(t, err)
	require.Equal(t, 3, dropped)

	// valid entries survive in source order
	require.Len(t, info.Menus, 3)
	require.Equal(t, "떡볶이", info.Menus[0].Name)
	require.Equal(t, 5000, info.Menus[0].Price)
	require.Equal(t, "순대", info.Menus[1].Name)
	require.Equal(t, 6000, info.Menus[1].Price)
	require.Equal(t, "공짜전", info.Menus[2].Name)
	require.Zero(t, info.Menus[2].Price)
}

func TestNormalizeOriginalPrice(t *testing.T) {
	info, _, err := Normalize(&crawler.RawListing{
		Name:    "치킨집",
		Address: "서울",
		Menus: []crawler.RawMenu{
			{Name: "허니콤보", Price: "20,000원", OriginalPrice: "23,000원"},
			{Name: "레드콤보", Price: "19,000원"},
			// a "list price" at or below the selling price is noise
			{Name: "반반콤보", Price: "21,000원", OriginalPrice: "21,000원"},
		},
	})
	require.NoError(t, err)
	require.Len(t, info.Menus, 3)

	require.NotNil(t, info.Menus[0].OriginalPrice)
	require.Equal(t, 23000, *info.Menus[0].OriginalPrice)
	require.Nil(t, info.Menus[1].OriginalPrice)
	require.Nil(t, info.Menus[2].OriginalPrice)
}

func TestParsePrice(t *testing.T) {
	cases := []struct {
		in     string
		expect int
		ok     bool
	}{
		{"12,000원", 12000, true},
		{"12000", 12000, true},
		{"0원", 0, true},
		{"", 0, false},
		{"변동", 0, false},
		{"-5,000원", 0, false},
		{"가격 문의", 0, false},
	}

	for _, c := range cases {
		got, ok := parsePrice(c.in)
		require.Equal(t, c.ok, ok, "input %q", c.in)
		require.Equal(t, c.expect, got, "input %q", c.in)
	}
}
