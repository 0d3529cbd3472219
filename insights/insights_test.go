package insights

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestVisitorIDRotatesDaily(t *testing.T) {
	day := time.Date(2024, 3, 1, 10, 0, 0, 0, time.UTC)
	id := VisitorID("salt", "1.2.3.4", "ua", day)

	assert.Len(t, id, 16)
	assert.Equal(t, id, VisitorID("salt", "1.2.3.4", "ua", day.Add(time.Hour)))
	assert.NotEqual(t, id, VisitorID("salt", "1.2.3.4", "ua", day.AddDate(0, 0, 1)))
	assert.NotEqual(t, id, VisitorID("other", "1.2.3.4", "ua", day))
}

func TestPathOf(t *testing.T) {
	assert.Equal(t, "/docs/install", PathOf("https://soulfiremc.com/docs/install?x=1"))
	assert.Equal(t, "/", PathOf("https://soulfiremc.com"))
	assert.Equal(t, "/", PathOf("::bad"))
}

func TestReferrerHost(t *testing.T) {
	assert.Equal(t, "github.com", ReferrerHost("https://www.github.com/soulfiremc", "soulfiremc.com"))
	assert.Empty(t, ReferrerHost("https://soulfiremc.com/docs", "soulfiremc.com"))
	assert.Empty(t, ReferrerHost("", "soulfiremc.com"))
	assert.Empty(t, ReferrerHost("not a url", "soulfiremc.com"))
}

func TestDeviceOf(t *testing.T) {
	assert.Equal(t, "Mobile", DeviceOf("Mozilla/5.0 (iPhone) Mobile Safari"))
	assert.Equal(t, "Tablet", DeviceOf("Mozilla/5.0 (iPad)"))
	assert.Equal(t, "Desktop", DeviceOf("Mozilla/5.0 (X11; Linux x86_64)"))
}

func TestIsBot(t *testing.T) {
	assert.True(t, IsBot("Googlebot/2.1"))
	assert.True(t, IsBot("HeadlessChrome"))
	assert.False(t, IsBot("Mozilla/5.0 (X11; Linux x86_64) Firefox/120.0"))
}
