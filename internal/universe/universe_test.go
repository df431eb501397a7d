package universe

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	u, err := Default()
	require.NoError(t, err)

	assert.Equal(t, "nse", u.Name)
	assert.Equal(t, ".NS", u.Suffix)

	tickers := u.Tickers()
	assert.Greater(t, len(tickers), 200)
	assert.Equal(t, "ABB.NS", tickers[0])
	assert.Contains(t, tickers, "M&M.NS")
	assert.Contains(t, tickers, "BAJAJ-AUTO.NS")
	assert.Contains(t, tickers, "ZYDUSLIFE.NS")
}

func TestTickers(t *testing.T) {
	u := &Universe{
		Suffix:  ".ns",
		Symbols: []string{" tcs ", "INFY", "TCS", "", "WIPRO.NS", "^NSEI"},
	}

	assert.Equal(t, []string{"TCS.NS", "INFY.NS", "WIPRO.NS", "^NSEI.NS"}, u.Tickers())

	bare := &Universe{Symbols: []string{"AAPL", "msft"}}
	assert.Equal(t, []string{"AAPL", "MSFT"}, bare.Tickers())
}

func TestParse(t *testing.T) {
	tests := []struct {
		name    string
		data    string
		wantErr bool
		wantLen int
	}{
		{
			name:    "valid",
			data:    "name: mini\nsuffix: .NS\nsymbols:\n  - TCS\n  - INFY\n",
			wantLen: 2,
		},
		{
			name:    "no symbols",
			data:    "name: empty\nsymbols: []\n",
			wantErr: true,
		},
		{
			name:    "invalid yaml",
			data:    "symbols: [TCS\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			u, err := Parse([]byte(tt.data))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, u.Symbols, tt.wantLen)
		})
	}
}

func TestLoad(t *testing.T) {
	u, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "nse", u.Name)

	path := filepath.Join(t.TempDir(), "mini.yaml")
	require.NoError(t, os.WriteFile(path, []byte("name: mini\nsymbols: [AAPL, MSFT]\n"), 0o644))

	u, err = Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"AAPL", "MSFT"}, u.Tickers())

	_, err = Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestIndex_Search(t *testing.T) {
	idx, err := NewIndex([]string{"TCS.NS", "TATAMOTORS.NS", "TATASTEEL.NS", "TITAN.NS", "BAJAJ-AUTO.NS", "M&M.NS", "INFY.NS"})
	require.NoError(t, err)
	defer idx.Close()

	count, err := idx.Count()
	require.NoError(t, err)
	assert.Equal(t, uint64(7), count)

	tests := []struct {
		prefix string
		limit  int
		want   []string
	}{
		{"tata", 10, []string{"TATAMOTORS.NS", "TATASTEEL.NS"}},
		{"T", 10, []string{"TATAMOTORS.NS", "TATASTEEL.NS", "TCS.NS", "TITAN.NS"}},
		{"t", 2, []string{"TATAMOTORS.NS", "TATASTEEL.NS"}},
		{"bajaj-", 10, []string{"BAJAJ-AUTO.NS"}},
		{"m&", 10, []string{"M&M.NS"}},
		{"zzz", 10, []string{}},
		{"", 3, []string{"BAJAJ-AUTO.NS", "INFY.NS", "M&M.NS"}},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			got, err := idx.Search(tt.prefix, tt.limit)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
