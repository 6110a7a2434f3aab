package postgres_test

import (
	"context"
	"os"
	"testing"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/get-eventually/go-base64bytes/attachment"
	"github.com/get-eventually/go-base64bytes/logger"
	"github.com/get-eventually/go-base64bytes/postgres"
	"github.com/get-eventually/go-base64bytes/postgres/internal"
	"github.com/get-eventually/go-base64bytes/record"
	"github.com/get-eventually/go-base64bytes/record/recordtest"
	"github.com/get-eventually/go-base64bytes/serde"
)

func newAttachment() *attachment.Attachment { return new(attachment.Attachment) }

// databaseURL returns the DATABASE_URL environment variable, if set,
// or starts a new Postgres container otherwise.
func databaseURL(t *testing.T) string {
	t.Helper()

	if url, ok := os.LookupEnv("DATABASE_URL"); ok {
		return url
	}

	container, err := internal.NewPostgresContainer(context.Background())
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(context.Background()))
	})

	return container.ConnectionDSN
}

func TestStore(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}

	ctx := context.Background()
	url := databaseURL(t)

	require.NoError(t, postgres.RunMigrations(url))
	// Running migrations twice is a no-op.
	require.NoError(t, postgres.RunMigrations(url))

	conn, err := pgxpool.New(ctx, url)
	require.NoError(t, err)
	t.Cleanup(conn.Close)

	for _, s := range attachment.Serdes() {
		t.Run(s.Format().Name, func(t *testing.T) {
			recordtest.RunStoreSuite(t, func() record.Store[*attachment.Attachment] {
				return postgres.NewStore[*attachment.Attachment](conn, s,
					postgres.WithLogger[*attachment.Attachment](logger.NewTest(t)),
				)
			})
		})
	}

	t.Run("it records the payload format", func(t *testing.T) {
		hello := attachment.New("hello.txt", []byte("hello"))

		testCases := []struct {
			serde         serde.Described[*attachment.Attachment, []byte]
			humanReadable bool
		}{
			{serde: serde.NewJSON(newAttachment), humanReadable: true},
			{serde: serde.NewCBOR(newAttachment), humanReadable: false},
		}

		for _, tc := range testCases {
			id := uuid.New()
			store := postgres.NewStore[*attachment.Attachment](conn, tc.serde)
			require.NoError(t, store.Save(ctx, id, hello))

			var (
				format        string
				humanReadable bool
			)

			require.NoError(t, conn.QueryRow(ctx,
				"SELECT format, human_readable FROM records WHERE id = $1", id,
			).Scan(&format, &humanReadable))

			assert.Equal(t, tc.serde.Format().Name, format)
			assert.Equal(t, tc.humanReadable, humanReadable)
		}
	})

	t.Run("it rejects records saved with a different format", func(t *testing.T) {
		id := uuid.New()

		jsonStore := postgres.NewStore[*attachment.Attachment](conn, serde.NewJSON(newAttachment))
		require.NoError(t, jsonStore.Save(ctx, id, attachment.New("a.txt", []byte("a"))))

		cborStore := postgres.NewStore[*attachment.Attachment](conn, serde.NewCBOR(newAttachment))
		_, err := cborStore.Get(ctx, id)
		assert.ErrorIs(t, err, record.ErrFormatMismatch)
	})

	t.Run("it uses the configured table name", func(t *testing.T) {
		_, err := conn.Exec(ctx, "CREATE TABLE IF NOT EXISTS attachments (LIKE records INCLUDING ALL)")
		require.NoError(t, err)

		id := uuid.New()
		store := postgres.NewStore[*attachment.Attachment](conn, serde.NewMsgPack(newAttachment),
			postgres.WithTableName[*attachment.Attachment]("attachments"),
		)

		require.NoError(t, store.Save(ctx, id, attachment.New("b.txt", []byte("b"))))

		var count int
		require.NoError(t, conn.QueryRow(ctx, "SELECT COUNT(*) FROM attachments WHERE id = $1", id).Scan(&count))
		assert.Equal(t, 1, count)

		require.NoError(t, conn.QueryRow(ctx, "SELECT COUNT(*) FROM records WHERE id = $1", id).Scan(&count))
		assert.Zero(t, count)
	})
}
