package translator

import (
	"testing"

	gst "github.com/richinsley/goshadertranslator"
)

func TestOutputFormat(t *testing.T) {
	tests := []struct {
		major, minor int
		want         gst.OutputFormat
	}{
		{3, 3, gst.OutputFormatGLSL330},
		{4, 0, gst.OutputFormatGLSL330},
		{4, 1, gst.OutputFormatGLSL410},
		{4, 6, gst.OutputFormatGLSL410},
		{5, 0, gst.OutputFormatGLSL410},
	}
	for _, tt := range tests {
		if got := (Translator{Major: tt.major, Minor: tt.minor}).outputFormat(); got != tt.want {
			t.Fatalf("outputFormat for GL %d.%d = %q, want %q", tt.major, tt.minor, got, tt.want)
		}
	}
}
