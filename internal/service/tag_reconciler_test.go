package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"filetag-go/internal/models"
	"filetag-go/internal/repository"
)

func (f *fixture) reconcile(t *testing.T, fileID uint, refs ...TagRef) (*ReconcileResult, error) {
	t.Helper()
	var result *ReconcileResult
	err := f.store.Transaction(f.ctx, func(tx *repository.Store) error {
		var err error
		result, err = f.tags.Reconcile(f.ctx, tx, fileID, refs)
		return err
	})
	return result, err
}

func countTags(t *testing.T, f *fixture) int64 {
	t.Helper()
	tags, err := f.store.Tags.Search(f.ctx, "", 1000)
	require.NoError(t, err)
	return int64(len(tags))
}

func TestReconcileNormalizesAndDeduplicates(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	file := f.createFile(t, owner)

	result, err := f.reconcile(t, file.ID, PendingTag("Art"), PendingTag("art"), PendingTag(" ART "))
	require.NoError(t, err)

	require.Len(t, result.Tags, 1)
	assert.Equal(t, "art", result.Tags[0].Tag)
	assert.Len(t, result.Created, 1)
	assert.Len(t, result.Linked, 1)
	assert.Equal(t, int64(1), countTags(t, f))

	linked, err := f.store.Tags.LinkedTagIDs(f.ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{result.Tags[0].ID}, linked)
}

func TestReconcileReusesExistingTag(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	first := f.createFile(t, owner)
	second := f.createFile(t, owner)

	r1, err := f.reconcile(t, first.ID, PendingTag("demo"))
	require.NoError(t, err)

	r2, err := f.reconcile(t, second.ID, PendingTag("DEMO"), PersistedTag(r1.Tags[0].ID, "demo"))
	require.NoError(t, err)

	require.Len(t, r2.Tags, 1)
	assert.Equal(t, r1.Tags[0].ID, r2.Tags[0].ID)
	assert.Empty(t, r2.Created)
	assert.Equal(t, int64(1), countTags(t, f))
}

func TestReconcileDoesNotRelinkExistingLinks(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	file := f.createFile(t, owner)

	_, err := f.reconcile(t, file.ID, PendingTag("photo"))
	require.NoError(t, err)

	result, err := f.reconcile(t, file.ID, PendingTag("Photo"), PendingTag("night"))
	require.NoError(t, err)
	assert.Len(t, result.Tags, 2)
	assert.Len(t, result.Linked, 1)

	tags, err := f.store.Tags.ListByFileID(f.ctx, file.ID)
	require.NoError(t, err)
	assert.Len(t, tags, 2)
}

func TestReconcileSkipsBlankLabels(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	file := f.createFile(t, owner)

	result, err := f.reconcile(t, file.ID, PendingTag("   "), PendingTag("ok"))
	require.NoError(t, err)
	assert.Equal(t, []string{"   "}, result.Skipped)
	require.Len(t, result.Tags, 1)
	assert.Equal(t, "ok", result.Tags[0].Tag)
}

func TestReconcileUnknownPersistedTagRollsBack(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	file := f.createFile(t, owner)

	_, err := f.reconcile(t, file.ID, PendingTag("fresh"), PersistedTag(999, "ghost"))
	assert.ErrorIs(t, err, ErrNotFound)

	// 同一事务内新建的标签与关联全部回滚
	assert.Zero(t, countTags(t, f))
	linked, err := f.store.Tags.LinkedTagIDs(f.ctx, file.ID)
	require.NoError(t, err)
	assert.Empty(t, linked)
}

func TestParseTagRef(t *testing.T) {
	cases := []struct {
		id      string
		label   string
		want    TagRef
		wantErr bool
	}{
		{"", "art", PendingTag("art"), false},
		{"temp-1700000000", "art", PendingTag("art"), false},
		{"12", "art", PersistedTag(12, "art"), false},
		{" 7 ", "x", PersistedTag(7, "x"), false},
		{"0", "art", TagRef{}, true},
		{"abc", "art", TagRef{}, true},
		{"-3", "art", TagRef{}, true},
	}
	for _, tc := range cases {
		ref, err := ParseTagRef(tc.id, tc.label)
		if tc.wantErr {
			assert.ErrorIs(t, err, ErrInvalidInput, "id=%q", tc.id)
			continue
		}
		require.NoError(t, err, "id=%q", tc.id)
		assert.Equal(t, tc.want, ref)
		assert.Equal(t, tc.want.IsPending(), ref.IsPending())
	}
}

func TestSearchTags(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	file := f.createFile(t, owner)

	_, err := f.reconcile(t, file.ID, PendingTag("landscape"), PendingTag("land"), PendingTag("sea"))
	require.NoError(t, err)

	tags, err := f.tags.SearchTags(f.ctx, " LAND ")
	require.NoError(t, err)
	require.Len(t, tags, 2)
	assert.Equal(t, "land", tags[0].Tag)
	assert.Equal(t, "landscape", tags[1].Tag)

	tags, err = f.tags.SearchTags(f.ctx, "")
	require.NoError(t, err)
	assert.Empty(t, tags)

	// LIKE 通配符按字面匹配
	tags, err = f.tags.SearchTags(f.ctx, "%")
	require.NoError(t, err)
	assert.Empty(t, tags)
}

func TestFileTagsAndUnlink(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	other := f.session(t, "0xOTHER")
	file := f.createFile(t, owner)

	result, err := f.reconcile(t, file.ID, PendingTag("a"), PendingTag("b"))
	require.NoError(t, err)
	tagA := result.Tags[0]

	err = f.tags.Unlink(f.ctx, other, file.ID, tagA.ID)
	assert.ErrorIs(t, err, ErrForbidden)

	require.NoError(t, f.tags.Unlink(f.ctx, owner, file.ID, tagA.ID))
	assert.ErrorIs(t, f.tags.Unlink(f.ctx, owner, file.ID, tagA.ID), ErrNotFound)

	tags, err := f.tags.FileTags(f.ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, []models.Tag{{ID: result.Tags[1].ID, Tag: "b"}}, tags)

	_, err = f.tags.FileTags(f.ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestReconcileSkipsPersistedDuplicateOfSeenLabel(t *testing.T) {
	f := newFixture(t)
	owner := f.session(t, "0xOWNER")
	file := f.createFile(t, owner)

	// 去重任务运行前遗留的大小写重复标签
	lower := &models.Tag{Tag: "art"}
	require.NoError(t, f.store.Tags.Create(f.ctx, lower))
	upper := &models.Tag{Tag: "Art"}
	require.NoError(t, f.store.Tags.Create(f.ctx, upper))

	result, err := f.reconcile(t, file.ID, PendingTag("ART"), PersistedTag(upper.ID, "Art"))
	require.NoError(t, err)
	require.Len(t, result.Tags, 1)
	assert.Equal(t, lower.ID, result.Tags[0].ID)

	linked, err := f.store.Tags.LinkedTagIDs(f.ctx, file.ID)
	require.NoError(t, err)
	assert.Equal(t, []uint{lower.ID}, linked)

	// 顺序相反时保留先出现的持久化标签
	other := f.createFile(t, owner)
	result, err = f.reconcile(t, other.ID, PersistedTag(upper.ID, "Art"), PendingTag("art"))
	require.NoError(t, err)
	require.Len(t, result.Tags, 1)
	assert.Equal(t, upper.ID, result.Tags[0].ID)
}
