package telegram

import (
	"testing"

	"coronabot/sources/paging"
	"coronabot/sources/statistics"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCodecRoundTrip(t *testing.T) {
	codec := NewCodec()

	tests := []struct {
		name     string
		payload  string
		expected Callback
	}{
		{
			name:     "List page",
			payload:  codec.EncodeList(3, 5),
			expected: Callback{Kind: CallbackList, Page: 3, Size: 5},
		},
		{
			name:     "List last page sentinel",
			payload:  codec.EncodeList(paging.LastPage, 10),
			expected: Callback{Kind: CallbackList, Page: paging.LastPage, Size: 10},
		},
		{
			name:     "Order menu open",
			payload:  codec.EncodeOrderMenu(true, 2, 5, false),
			expected: Callback{Kind: CallbackOrderMenu, Open: true, Page: 2, Size: 5, Last: false},
		},
		{
			name:     "Order menu close on last page",
			payload:  codec.EncodeOrderMenu(false, 4, 5, true),
			expected: Callback{Kind: CallbackOrderMenu, Open: false, Page: 4, Size: 5, Last: true},
		},
		{
			name:     "Order selection",
			payload:  codec.EncodeOrder(statistics.SortTodayDeaths, 5),
			expected: Callback{Kind: CallbackOrder, Sort: statistics.SortTodayDeaths, Size: 5},
		},
		{
			name:     "Stats toggle to detailed",
			payload:  codec.EncodeStats("DE", true),
			expected: Callback{Kind: CallbackStats, Location: "DE", Detailed: true},
		},
		{
			name:     "Stats toggle for state code",
			payload:  codec.EncodeStats("us_new_york", false),
			expected: Callback{Kind: CallbackStats, Location: "us_new_york", Detailed: false},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := codec.Decode(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *decoded)
		})
	}
}

// Buttons minted before a deploy must keep working, so out-of-range
// numbers clamp instead of erroring.
func TestCodecClamping(t *testing.T) {
	codec := NewCodec()

	tests := []struct {
		name     string
		payload  string
		expected Callback
	}{
		{
			name:     "Oversized page size clamps down",
			payload:  "list 0 500",
			expected: Callback{Kind: CallbackList, Page: 0, Size: paging.MaxPageSize},
		},
		{
			name:     "Undersized page size clamps up",
			payload:  "list 1 1",
			expected: Callback{Kind: CallbackList, Page: 1, Size: paging.MinPageSize},
		},
		{
			name:     "Negative page collapses to sentinel",
			payload:  "list -9 5",
			expected: Callback{Kind: CallbackList, Page: paging.LastPage, Size: 5},
		},
		{
			name:     "Unknown sort falls back to default",
			payload:  "list_order bananas 5",
			expected: Callback{Kind: CallbackOrder, Sort: statistics.SortCases, Size: 5},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			decoded, err := codec.Decode(tt.payload)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, *decoded)
		})
	}
}

func TestCodecRejectsMalformed(t *testing.T) {
	codec := NewCodec()

	payloads := []string{
		"",
		"bogus",
		"list",
		"list 1",
		"list one two",
		"list 1 2 3",
		"stats DE",
		"list_order_menu 1 2 3",
	}

	for _, payload := range payloads {
		t.Run("payload "+payload, func(t *testing.T) {
			_, err := codec.Decode(payload)
			assert.ErrorIs(t, err, ErrUnrecognizedCallback)
		})
	}
}
