package firebase

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestInitFirebaseNotConfigured(t *testing.T) {
	app, err := InitFirebase(context.Background(), "")
	assert.ErrorIs(t, err, ErrNotConfigured)
	assert.Nil(t, app)
}

func TestInitFirebaseMissingFile(t *testing.T) {
	app, err := InitFirebase(context.Background(), filepath.Join(t.TempDir(), "missing.json"))
	assert.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
	assert.Nil(t, app)
}
