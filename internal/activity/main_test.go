package activity

import (
	"os"
	"testing"

	"github.com/pairup/pairup/internal/database/dbtest"
)

func TestMain(m *testing.M) {
	code := m.Run()
	dbtest.Terminate()
	os.Exit(code)
}
