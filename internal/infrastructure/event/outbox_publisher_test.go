package event

import (
	"context"
	"regexp"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestOutboxPublisher_SaveEventsRejectsForeignTx(t *testing.T) {
	p := NewOutboxPublisher(NewEventSerializer())
	err := p.SaveEvents(context.Background(), "not a tx", newNotice("NoticePosted"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "*gorm.DB")
}

func TestOutboxPublisher_SaveEventsWithoutEvents(t *testing.T) {
	p := NewOutboxPublisher(NewEventSerializer())
	assert.NoError(t, p.SaveEvents(context.Background(), nil))
}

func TestOutboxPublisher_WritesEntriesInTx(t *testing.T) {
	db, mock := setupMockDB(t)
	p := NewOutboxPublisher(NewEventSerializer())

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "outbox_events"`)).
		WillReturnRows(sqlmock.NewRows([]string{"retry_count"}).AddRow(0).AddRow(0))
	mock.ExpectCommit()

	tx := db.Begin()
	require.NoError(t, p.SaveEvents(context.Background(), tx, newNotice("NoticePosted"), newNotice("NoticePosted")))
	require.NoError(t, tx.Commit().Error)
	assert.NoError(t, mock.ExpectationsWereMet())
}
