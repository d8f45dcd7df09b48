package labels

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForNamespace(t *testing.T) {
	t.Parallel()
	got := ForNamespace()
	assert.Equal(t, "store-platform", got[KeyManagedBy])
	assert.Equal(t, "store", got[KeyType])
}

func TestSelector(t *testing.T) {
	t.Parallel()
	assert.Equal(t, map[string]string{"app": "mariadb"}, Selector("mariadb"))
}
