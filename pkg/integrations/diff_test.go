package integrations

import "testing"

const samplePatch = `@@ -1,4 +1,5 @@
 # Title
-old line
+new line
+another line
 
 tail
@@ -20,2 +21,3 @@ func main() {
 a
+b
 c`

func TestDiffIndex(t *testing.T) {
	tests := []struct {
		line   int
		want   int
		wantOK bool
	}{
		{1, 1, true},
		{2, 3, true},
		{3, 4, true},
		{5, 6, true},
		{21, 8, true},
		{22, 9, true},
		{23, 10, true},
		{10, 0, false},
		{30, 0, false},
	}
	for _, tt := range tests {
		got, ok := DiffIndex(samplePatch, tt.line)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("DiffIndex(line %d) = %d, %v, want %d, %v", tt.line, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestDiffIndexMalformed(t *testing.T) {
	if _, ok := DiffIndex("@@ broken @@\n+a", 1); ok {
		t.Error("malformed hunk header should not match")
	}
	if _, ok := DiffIndex("", 1); ok {
		t.Error("empty patch should not match")
	}
}

func TestLocatedComment(t *testing.T) {
	tests := []struct {
		file string
		line int
		want string
	}{
		{"", 0, "Comment on abc.\n\nmsg"},
		{"a.go", 0, "Comment on abc, file a.go.\n\nmsg"},
		{"a.go", 4, "Comment on abc, file a.go, line 4.\n\nmsg"},
		{"", 4, "Comment on abc, line 4.\n\nmsg"},
	}
	for _, tt := range tests {
		if got := LocatedComment("abc", tt.file, tt.line, "msg"); got != tt.want {
			t.Errorf("LocatedComment(%q, %d) = %q, want %q", tt.file, tt.line, got, tt.want)
		}
	}
}

func TestDiffIndexTrailingNewline(t *testing.T) {
	got, ok := DiffIndex(samplePatch+"\n", 23)
	if !ok || got != 10 {
		t.Errorf("DiffIndex(line 23) = %d, %v, want 10, true", got, ok)
	}
	if _, ok := DiffIndex("@@ -1,2 +1,1 @@\n-gone\n kept\n", 2); ok {
		t.Error("line past the hunk should not match")
	}
}
