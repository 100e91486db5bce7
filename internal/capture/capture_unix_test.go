//go:build linux || freebsd || openbsd || netbsd || dragonfly

package capture

import (
	"strings"
	"testing"

	"github.com/godbus/dbus/v5"
)

func TestPortalOptions(t *testing.T) {
	prev := portalHandleToken
	portalHandleToken = func() string { return "tok" }
	t.Cleanup(func() { portalHandleToken = prev })

	tests := []struct {
		opts       Options
		wantCursor string
	}{
		{Options{}, "hidden"},
		{Options{Interactive: true, IncludeCursor: true}, "embedded"},
	}
	for _, tc := range tests {
		v := portalOptions(tc.opts)
		if got := v["cursor_mode"].Value().(string); got != tc.wantCursor {
			t.Errorf("cursor_mode = %q, want %q", got, tc.wantCursor)
		}
		if got := v["interactive"].Value().(bool); got != tc.opts.Interactive {
			t.Errorf("interactive = %v", got)
		}
		if got := v["handle_token"].Value().(string); got != "tok" {
			t.Errorf("handle_token = %q", got)
		}
	}
}

func TestPortalResult(t *testing.T) {
	ok := map[string]dbus.Variant{"uri": dbus.MakeVariant("file:///tmp/shot%20one.png")}
	path, err := portalResult([]interface{}{uint32(0), ok})
	if err != nil || path != "/tmp/shot one.png" {
		t.Fatalf("portalResult = %q, %v", path, err)
	}

	tests := []struct {
		name string
		body []interface{}
		want string
	}{
		{"short", []interface{}{uint32(0)}, "malformed"},
		{"cancelled", []interface{}{uint32(1), ok}, "cancelled"},
		{"no uri", []interface{}{uint32(0), map[string]dbus.Variant{}}, "missing"},
		{"http", []interface{}{uint32(0), map[string]dbus.Variant{"uri": dbus.MakeVariant("http://x/y.png")}}, "unexpected uri"},
	}
	for _, tc := range tests {
		if _, err := portalResult(tc.body); err == nil || !strings.Contains(err.Error(), tc.want) {
			t.Errorf("%s: err = %v, want %q", tc.name, err, tc.want)
		}
	}
}

func TestZpixmapToRGBA(t *testing.T) {
	// two BGRX pixels on one row with a pad of 4 bytes
	data := []byte{1, 2, 3, 0, 4, 5, 6, 0, 9, 9, 9, 9}
	img, err := zpixmapToRGBA(32, data, 2, 1)
	if err != nil {
		t.Fatalf("zpixmapToRGBA: %v", err)
	}
	if got := img.RGBAAt(0, 0); got.R != 3 || got.G != 2 || got.B != 1 || got.A != 255 {
		t.Fatalf("pixel 0 = %v", got)
	}
	if got := img.RGBAAt(1, 0); got.R != 6 || got.B != 4 {
		t.Fatalf("pixel 1 = %v", got)
	}
	if _, err := zpixmapToRGBA(16, data, 2, 1); err == nil {
		t.Fatal("expected unsupported format error")
	}
}
