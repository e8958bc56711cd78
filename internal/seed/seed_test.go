package seed

import (
	"fmt"
	"testing"

	"github.com/glebarez/sqlite"
	clientdomain "github.com/smallbiznis/vetledger/internal/client/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func TestEnsureWalkInClientIsIdempotent(t *testing.T) {
	db, err := gorm.Open(sqlite.Open(fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&clientdomain.Client{}))

	require.NoError(t, EnsureWalkInClient(db))
	require.NoError(t, EnsureWalkInClient(db))

	var count int64
	require.NoError(t, db.Model(&clientdomain.Client{}).
		Where("control_number = ?", walkInControlNumber).
		Count(&count).Error)
	assert.Equal(t, int64(1), count)
}
