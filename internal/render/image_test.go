package render

import "testing"

func TestParseImageAlt(t *testing.T) {
	tests := []struct {
		alt  string
		want ImageAlt
	}{
		{"Diagram width-300 height-50%", ImageAlt{Caption: "Diagram", Text: "Diagram", MaxWidth: "300px", MaxHeight: "50%"}},
		{"width-2.5em Nice   pic", ImageAlt{Caption: "Nice", Text: "Nice pic", MaxWidth: "2.5em"}},
		{"My cat width-300", ImageAlt{Caption: "My", Text: "My cat", MaxWidth: "300px"}},
		{"width-big caption", ImageAlt{Caption: "width-big", Text: "width-big caption"}},
		{"height-10vh", ImageAlt{MaxHeight: "10vh"}},
		{"", ImageAlt{}},
	}
	for _, tt := range tests {
		if got := ParseImageAlt(tt.alt); got != tt.want {
			t.Errorf("ParseImageAlt(%q): expected %+v, got %+v", tt.alt, tt.want, got)
		}
	}
}

func TestImageAltStyle(t *testing.T) {
	if got := (ImageAlt{MaxWidth: "10px"}).Style(); got != "max-width:10px" {
		t.Errorf("expected %q, got %q", "max-width:10px", got)
	}
	if got := (ImageAlt{}).Style(); got != "" {
		t.Errorf("expected empty style, got %q", got)
	}
}
