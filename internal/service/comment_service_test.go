package service

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filetag-go/internal/logging"
)

func TestCommentLifecycle(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	other := f.session(t, "0xOTHER")
	file := f.createFile(t, owner)
	comments := NewCommentService(f.store, logging.Discard())

	first, err := comments.AddComment(f.ctx, other, file.ID, "  first!  ")
	require.NoError(t, err)
	assert.Equal(t, "first!", first.Comment)
	assert.Equal(t, "0xOTHER", first.User.WalletAddress)

	_, err = comments.AddComment(f.ctx, owner, file.ID, "second")
	require.NoError(t, err)

	list, err := comments.ListComments(f.ctx, file.ID)
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "first!", list[0].Comment)

	err = comments.DeleteComment(f.ctx, owner, first.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, comments.DeleteComment(f.ctx, other, first.ID))
	err = comments.DeleteComment(f.ctx, other, first.ID)
	assert.ErrorIs(t, err, ErrNotFound)

	list, err = comments.ListComments(f.ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, list, 1)
}

func TestAddCommentValidation(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	file := f.createFile(t, owner)
	comments := NewCommentService(f.store, logging.Discard())

	_, err := comments.AddComment(f.ctx, nil, file.ID, "hi")
	assert.ErrorIs(t, err, ErrWalletRequired)

	_, err = comments.AddComment(f.ctx, owner, file.ID, "   ")
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = comments.AddComment(f.ctx, owner, file.ID, strings.Repeat("字", maxCommentLength+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = comments.AddComment(f.ctx, owner, file.ID, strings.Repeat("字", maxCommentLength))
	assert.NoError(t, err)

	_, err = comments.AddComment(f.ctx, owner, 404, "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = comments.ListComments(f.ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReportFile(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	reporter := f.session(t, "0xREPORTER")
	file := f.createFile(t, owner)
	reports := NewReportService(f.store, logging.Discard())

	withReason, err := reports.ReportFile(f.ctx, reporter, file.ID, " spam ")
	require.NoError(t, err)
	require.NotNil(t, withReason.ReportReason)
	assert.Equal(t, "spam", *withReason.ReportReason)

	blank, err := reports.ReportFile(f.ctx, reporter, file.ID, "")
	require.NoError(t, err)
	assert.Nil(t, blank.ReportReason)

	_, err = reports.ReportFile(f.ctx, reporter, file.ID, strings.Repeat("x", maxReportReasonLength+1))
	assert.ErrorIs(t, err, ErrInvalidInput)

	_, err = reports.ReportFile(f.ctx, nil, file.ID, "spam")
	assert.ErrorIs(t, err, ErrWalletRequired)

	_, err = reports.ReportFile(f.ctx, reporter, 404, "spam")
	assert.ErrorIs(t, err, ErrNotFound)

	list, err := reports.ListReports(f.ctx, owner, file.ID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	_, err = reports.ListReports(f.ctx, nil, file.ID)
	assert.ErrorIs(t, err, ErrWalletRequired)
}

func TestCommentAndReportUnknownUser(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	file := f.createFile(t, owner)
	ghost := &Session{UserID: 999, WalletAddress: "0xGHOST"}

	_, err := NewCommentService(f.store, logging.Discard()).AddComment(f.ctx, ghost, file.ID, "hi")
	assert.ErrorIs(t, err, ErrNotFound)

	_, err = NewReportService(f.store, logging.Discard()).ReportFile(f.ctx, ghost, file.ID, "spam")
	assert.ErrorIs(t, err, ErrNotFound)

	count, err := f.store.Comments.CountByFileID(f.ctx, file.ID)
	require.NoError(t, err)
	assert.Zero(t, count)
}
