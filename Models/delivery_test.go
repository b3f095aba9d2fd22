package Models_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"Verdant/Models"
)

func TestEncodeURLList(t *testing.T) {
	assert.Equal(t, "[]", Models.EncodeURLList(nil))
	assert.Equal(t, "[]", Models.EncodeURLList([]string{}))
	assert.Equal(t, `["/files/DeliveryPhotos/a.jpg"]`,
		Models.EncodeURLList([]string{"/files/DeliveryPhotos/a.jpg"}))
}

func TestDecodeURLList(t *testing.T) {
	assert.Empty(t, Models.DecodeURLList(""))
	assert.Empty(t, Models.DecodeURLList("[]"))
	assert.Empty(t, Models.DecodeURLList("null"))
	assert.Empty(t, Models.DecodeURLList("not json"))
	assert.Equal(t, []string{"a", "b"}, Models.DecodeURLList(`["a","b"]`))
}

func TestURLListRoundTrip(t *testing.T) {
	cases := [][]string{
		{"/files/DeliveryPhotos/1_load.jpg"},
		{"one", "two", "three"},
		{`has "quotes"`, "and spaces", "und_ümlauts.pdf"},
	}
	for _, urls := range cases {
		decoded := Models.DecodeURLList(Models.EncodeURLList(urls))
		assert.Equal(t, urls, decoded)
	}
}

func TestParseTicketMeta(t *testing.T) {
	meta, ok := Models.ParseTicketMeta(`{"ticket_number":"WT-100","gross_weight":45000,"tare_weight":26000,"material":"food_waste"}`)
	require.True(t, ok)
	assert.Equal(t, "WT-100", meta.TicketNumber)
	assert.Equal(t, 45000.0, meta.GrossWeight)
	assert.Equal(t, 26000.0, meta.TareWeight)
	assert.Equal(t, "food_waste", meta.Material)

	_, ok = Models.ParseTicketMeta("driver called ahead, gate code 4412")
	assert.False(t, ok)

	_, ok = Models.ParseTicketMeta("")
	assert.False(t, ok)

	_, ok = Models.ParseTicketMeta("{not valid json")
	assert.False(t, ok)

	meta, ok = Models.ParseTicketMeta("\n  {\"ticket_number\":\"WT-7\"}")
	require.True(t, ok)
	assert.Equal(t, "WT-7", meta.TicketNumber)
}
