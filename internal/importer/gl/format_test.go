package gl

import (
	"testing"

	"github.com/waylex/waylex/internal/importer"
)

func TestMapShmFormat(t *testing.T) {
	cases := []struct {
		in   importer.Fourcc
		want uint32
		ok   bool
	}{
		{importer.FourccArgb8888, glBGRA, true},
		{importer.FourccXrgb8888, glBGRA, true},
		{importer.FourccAbgr8888, glRGBA, true},
		{importer.FourccXbgr8888, glRGBA, true},
		{importer.Fourcc(0xdeadbeef), 0, false},
	}
	for _, c := range cases {
		got, ok := mapShmFormat(c.in)
		if ok != c.ok || got != c.want {
			t.Errorf("mapShmFormat(%#x) = (%#x, %v), want (%#x, %v)", c.in, got, ok, c.want, c.ok)
		}
	}
}
