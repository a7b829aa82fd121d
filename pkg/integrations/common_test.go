package integrations

import "testing"

func TestNormalizeRepoURL(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"empty", "", ""},
		{"https url", "https://github.com/user/repo", "https://github.com/user/repo"},
		{"with .git suffix", "https://github.com/user/repo.git", "https://github.com/user/repo"},
		{"git@ to https", "git@github.com:user/repo", "https://github.com/user/repo"},
		{"git:// to https", "git://github.com/user/repo", "https://github.com/user/repo"},
		{"git+ prefix", "git+https://github.com/user/repo", "https://github.com/user/repo"},
		{"gitlab ssh", "git@gitlab.com:group/repo.git", "https://gitlab.com/group/repo"},
		{"with spaces", "  https://github.com/user/repo  ", "https://github.com/user/repo"},
		{"combined", "git+git@github.com:user/repo.git", "https://github.com/user/repo"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := NormalizeRepoURL(tt.input); got != tt.want {
				t.Errorf("NormalizeRepoURL(%q) = %q, want %q", tt.input, got, tt.want)
			}
		})
	}
}

func TestSplitRepoURL(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		wantHost string
		wantName string
		wantOK   bool
	}{
		{"github", "https://github.com/gitmate-test-user/test", "github.com", "gitmate-test-user/test", true},
		{"clone url with token", "https://tok@github.com/gitmate-test-user/test.git", "github.com", "gitmate-test-user/test", true},
		{"gitlab subgroup", "git@gitlab.com:gitmate-test-org/sub/test.git", "gitlab.com", "gitmate-test-org/sub/test", true},
		{"gitlab tree view", "https://gitlab.com/a/b/-/tree/master", "gitlab.com", "a/b", true},
		{"owner only", "https://github.com/sils", "", "", false},
		{"not a url", "sils/test", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			host, name, ok := SplitRepoURL(tt.input)
			if host != tt.wantHost || name != tt.wantName || ok != tt.wantOK {
				t.Errorf("SplitRepoURL(%q) = %q, %q, %v", tt.input, host, name, ok)
			}
		})
	}
}

func TestNewHTTPClient(t *testing.T) {
	client := NewHTTPClient()
	if client == nil {
		t.Fatal("NewHTTPClient() returned nil")
	}
	if client.Timeout != httpTimeout {
		t.Errorf("Timeout = %v, want %v", client.Timeout, httpTimeout)
	}
}

func TestURLEncode(t *testing.T) {
	tests := map[string]string{
		"group/sub/project": "group%2Fsub%2Fproject",
		"needs review":      "needs%20review",
		"docs/README.md":    "docs%2FREADME.md",
		"plain":             "plain",
	}
	for in, want := range tests {
		if got := URLEncode(in); got != want {
			t.Errorf("URLEncode(%q) = %q, want %q", in, got, want)
		}
	}
}
