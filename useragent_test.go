package websession

import (
	"testing"

	"github.com/shoenig/test/must"
)

func TestDescribe(t *testing.T) {
	t.Parallel()

	agent := "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/118.0.0.0 Safari/537.36"
	must.Eq(t, "Chrome/desktop", Describe(agent))
}

func TestDescribe_empty(t *testing.T) {
	t.Parallel()

	must.Eq(t, "-", Describe(""))
	must.Eq(t, "-", Page{Path: "/"}.Client())
}
