package scraper

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/StateFromJakeFarm/research/internal/conf"
	"github.com/StateFromJakeFarm/research/internal/errors"
)

func TestBuildExtensionPattern(t *testing.T) {
	got, err := BuildExtensionPattern([]string{"mp3", "wav"})
	require.NoError(t, err)
	assert.Equal(t, `(.*\.mp3)|(.*\.wav)`, got)

	got, err = BuildExtensionPattern([]string{"flac"})
	require.NoError(t, err)
	assert.Equal(t, `(.*\.flac)`, got)

	got, err = BuildExtensionPattern([]string{"a+b"})
	require.NoError(t, err)
	assert.Equal(t, `(.*\.a\+b)`, got)
}

func TestBuildExtensionPatternEmpty(t *testing.T) {
	_, err := BuildExtensionPattern(nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNoExtensions)
	assert.True(t, errors.IsCategory(err, errors.CategoryConfiguration))
}

func TestBaseURL(t *testing.T) {
	suffixes := DefaultConfig().BaseURLSuffixes
	tests := []struct {
		in   string
		want string
	}{
		{"http://soundbible.com/tags-chain.html", "http://soundbible.com"},
		{"http://www.freesfx.co.uk/sfx/saw", "http://www.freesfx.co.uk"},
		{"https://example.org/a/b", "https://example.org"},
		{"http://localhost:8080/page", ""},
		// .com is found first, then .co.uk overrides it
		{"http://foo.com.co.uk/x", "http://foo.com.co.uk"},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			assert.Equal(t, tt.want, BaseURL(tt.in, suffixes))
		})
	}
}

func TestAbsoluteURL(t *testing.T) {
	tests := []struct {
		name string
		base string
		link string
		want string
	}{
		{"already absolute", "http://soundbible.com", "http://soundbible.com/grab.php?id=1&type=mp3", "http://soundbible.com/grab.php?id=1&type=mp3"},
		{"leading slash", "http://soundbible.com", "/mp3/saw.mp3", "http://soundbible.com/mp3/saw.mp3"},
		{"no slash", "http://soundbible.com", "mp3/saw.mp3", "http://soundbible.com/mp3/saw.mp3"},
		{"both slashes", "http://soundbible.com/", "/saw.wav", "http://soundbible.com/saw.wav"},
		{"base slash only", "http://soundbible.com/", "saw.wav", "http://soundbible.com/saw.wav"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, AbsoluteURL(tt.base, tt.link))
		})
	}
}

func TestHostAllowed(t *testing.T) {
	domains := []string{"soundbible.com", "freesfx.co.uk"}

	assert.True(t, hostAllowed("http://soundbible.com/a", domains))
	assert.True(t, hostAllowed("http://www.freesfx.co.uk/sfx", domains))
	assert.True(t, hostAllowed("http://SoundBible.com/a", domains))
	assert.False(t, hostAllowed("http://www.soundsboom.com/saw", domains))
	assert.False(t, hostAllowed("http://notsoundbible.com/", domains))
	assert.False(t, hostAllowed("://bad", domains))
	assert.True(t, hostAllowed("http://anything.net/", nil))
}

func TestConfigFromSettingsMatchesDefaults(t *testing.T) {
	s := conf.DefaultSettings().Scraper
	cfg := ConfigFromSettings(s)

	want := DefaultConfig()
	want.RequestTimeout = 30 * time.Second
	assert.Equal(t, want, cfg)

	cfg.StartURLs[0] = "changed"
	assert.NotEqual(t, "changed", s.StartURLs[0])
}
