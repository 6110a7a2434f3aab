package recordtest

import (
	"context"
	"crypto/rand"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/suite"
	"golang.org/x/sync/errgroup"

	"github.com/get-eventually/go-base64bytes/attachment"
	"github.com/get-eventually/go-base64bytes/record"
)

// StoreSuite is a full testing suite for a record.Store instance
// storing attachment.Attachment records.
type StoreSuite struct {
	suite.Suite

	storeFactory func() record.Store[*attachment.Attachment]
	store        record.Store[*attachment.Attachment] // NOTE: this instance is initialized in SetupTest.
}

// NewStoreSuite creates a new Store testing suite using the provided
// factory to build record.Store instances.
func NewStoreSuite(factory func() record.Store[*attachment.Attachment]) *StoreSuite {
	ss := new(StoreSuite)
	ss.storeFactory = factory

	return ss
}

// RunStoreSuite runs the StoreSuite against the record.Store instances
// built by the provided factory.
func RunStoreSuite(t *testing.T, factory func() record.Store[*attachment.Attachment]) {
	t.Helper()
	suite.Run(t, NewStoreSuite(factory))
}

// SetupTest creates a new, fresh Store instance for each test in the suite.
func (ss *StoreSuite) SetupTest() {
	ss.store = ss.storeFactory()
}

func (ss *StoreSuite) randomAttachment(name string, size int) *attachment.Attachment {
	content := make([]byte, size)
	_, err := rand.Read(content)
	ss.Require().NoError(err)

	return attachment.New(name, content)
}

// TestGetMissing makes sure missing records are reported with record.ErrNotFound.
func (ss *StoreSuite) TestGetMissing() {
	ctx := context.Background()

	got, err := ss.store.Get(ctx, uuid.New())
	ss.ErrorIs(err, record.ErrNotFound)
	ss.Nil(got)

	ss.ErrorIs(ss.store.Delete(ctx, uuid.New()), record.ErrNotFound)
}

// TestSaveAndGet makes sure records of any size are stored and retrieved
// without alterations.
func (ss *StoreSuite) TestSaveAndGet() {
	ctx := context.Background()

	for _, size := range []int{0, 1, 10, 1000, 65536} {
		id := uuid.New()
		want := ss.randomAttachment(fmt.Sprintf("attachment-%d.bin", size), size)

		ss.Require().NoError(ss.store.Save(ctx, id, want))

		got, err := ss.store.Get(ctx, id)
		ss.Require().NoError(err)
		ss.True(want.Equal(got), "attachment of size %d changed after round-trip", size)
		ss.True(got.Verify())
	}
}

// TestSaveOverwrites makes sure saving a record with an existing id
// replaces the previous value.
func (ss *StoreSuite) TestSaveOverwrites() {
	ctx := context.Background()
	id := uuid.New()

	first := ss.randomAttachment("first.bin", 32)
	second := ss.randomAttachment("second.bin", 64)

	ss.Require().NoError(ss.store.Save(ctx, id, first))
	ss.Require().NoError(ss.store.Save(ctx, id, second))

	got, err := ss.store.Get(ctx, id)
	ss.Require().NoError(err)
	ss.True(second.Equal(got))
}

// TestDelete makes sure deleted records cannot be retrieved anymore.
func (ss *StoreSuite) TestDelete() {
	ctx := context.Background()
	id := uuid.New()

	ss.Require().NoError(ss.store.Save(ctx, id, ss.randomAttachment("deleted.bin", 16)))
	ss.Require().NoError(ss.store.Delete(ctx, id))

	_, err := ss.store.Get(ctx, id)
	ss.ErrorIs(err, record.ErrNotFound)

	ss.ErrorIs(ss.store.Delete(ctx, id), record.ErrNotFound)
}

// TestConcurrentAccess saves and retrieves records from multiple goroutines,
// then fetches them all through record.GetMany.
func (ss *StoreSuite) TestConcurrentAccess() {
	const records = 16

	ctx := context.Background()
	ids := make([]uuid.UUID, records)
	attachments := make([]*attachment.Attachment, records)

	for i := 0; i < records; i++ {
		ids[i] = uuid.New()
		attachments[i] = ss.randomAttachment(fmt.Sprintf("concurrent-%d.bin", i), 128*i)
	}

	group, groupCtx := errgroup.WithContext(ctx)

	for i := 0; i < records; i++ {
		i := i

		group.Go(func() error {
			if err := ss.store.Save(groupCtx, ids[i], attachments[i]); err != nil {
				return err
			}

			_, err := ss.store.Get(groupCtx, ids[i])

			return err
		})
	}

	ss.Require().NoError(group.Wait())

	got, err := record.GetMany[*attachment.Attachment](ctx, ss.store, ids...)
	ss.Require().NoError(err)
	ss.Require().Len(got, records)

	for i := 0; i < records; i++ {
		ss.True(attachments[i].Equal(got[i]), "attachment %d does not match", i)
	}

	_, err = record.GetMany[*attachment.Attachment](ctx, ss.store, ids[0], uuid.New())
	ss.ErrorIs(err, record.ErrNotFound)
}
