package aids

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestTruncate(t *testing.T) {
	require.Equal(t, "6840874", Truncate("68408742b3b670ec101b757e", 7))
	require.Equal(t, "short", Truncate("short", 8))
	require.Equal(t, "Jo", Truncate("João", 2))
	require.Equal(t, "Joã", Truncate("João", 3))
	require.Equal(t, "", Truncate("anything", 0))
}

func TestMarshalIndent(t *testing.T) {
	s, err := MarshalIndent(map[string]any{"name": "João <teste>"})
	require.NoError(t, err)
	require.Equal(t, "{\n  \"name\": \"João <teste>\"\n}", s)
}

func TestIndentJSON(t *testing.T) {
	require.Equal(t, "{\n  \"a\": 1\n}", IndentJSON([]byte(`{"a":1}`)))
	require.Equal(t, "not json", IndentJSON([]byte("not json")))
}

func TestMustPanics(t *testing.T) {
	require.Panics(t, func() { Must(0, errTest{}) })
	require.Equal(t, 3, Must(3, nil))
	require.Equal(t, "b", Iif(false, "a", "b"))
}

type errTest struct{}

func (errTest) Error() string { return "boom" }
