package recordfirestore_test

import (
	"context"
	"testing"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go/modules/gcloud"
	"google.golang.org/api/option"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"

	"github.com/get-eventually/go-base64bytes/attachment"
	recordfirestore "github.com/get-eventually/go-base64bytes/firestore"
	"github.com/get-eventually/go-base64bytes/logger"
	"github.com/get-eventually/go-base64bytes/record"
	"github.com/get-eventually/go-base64bytes/record/recordtest"
	"github.com/get-eventually/go-base64bytes/serde"
)

const (
	emulatorImage = "gcr.io/google.com/cloudsdktool/cloud-sdk:367.0.0-emulators"
	projectID     = "base64bytes-test"
)

// emulatorCredentials authenticates every call to the Firestore emulator
// as the owner of the project.
type emulatorCredentials struct{}

func (emulatorCredentials) GetRequestMetadata(context.Context, ...string) (map[string]string, error) {
	return map[string]string{"authorization": "Bearer owner"}, nil
}

func (emulatorCredentials) RequireTransportSecurity() bool { return false }

func newClient(t *testing.T) *firestore.Client {
	t.Helper()

	ctx := context.Background()

	container, err := gcloud.RunFirestore(ctx, emulatorImage, gcloud.WithProjectID(projectID))
	require.NoError(t, err)

	t.Cleanup(func() {
		assert.NoError(t, container.Terminate(context.Background()))
	})

	conn, err := grpc.NewClient(
		container.URI,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithPerRPCCredentials(emulatorCredentials{}),
	)
	require.NoError(t, err)

	client, err := firestore.NewClient(ctx, projectID, option.WithGRPCConn(conn))
	require.NoError(t, err)

	t.Cleanup(func() { assert.NoError(t, client.Close()) })

	return client
}

func newAttachment() *attachment.Attachment { return new(attachment.Attachment) }

func TestStore(t *testing.T) {
	if testing.Short() {
		t.SkipNow()
	}

	ctx := context.Background()
	client := newClient(t)

	for _, s := range attachment.Serdes() {
		t.Run(s.Format().Name, func(t *testing.T) {
			recordtest.RunStoreSuite(t, func() record.Store[*attachment.Attachment] {
				return recordfirestore.NewStore[*attachment.Attachment](client, s,
					recordfirestore.WithLogger[*attachment.Attachment](logger.NewTest(t)),
				)
			})
		})
	}

	t.Run("it records the payload format", func(t *testing.T) {
		id := uuid.New()
		store := recordfirestore.NewStore[*attachment.Attachment](client, serde.NewCBOR(newAttachment),
			recordfirestore.WithCollection[*attachment.Attachment]("Attachments"),
		)

		require.NoError(t, store.Save(ctx, id, attachment.New("hello.txt", []byte("hello"))))

		snapshot, err := client.Collection("Attachments").Doc(id.String()).Get(ctx)
		require.NoError(t, err)

		data := snapshot.Data()
		assert.Equal(t, "cbor", data["format"])
		assert.Equal(t, false, data["human_readable"])
		assert.IsType(t, []byte(nil), data["payload"])
	})

	t.Run("it rejects records saved with a different format", func(t *testing.T) {
		id := uuid.New()

		yamlStore := recordfirestore.NewStore[*attachment.Attachment](client, serde.NewYAML(newAttachment))
		require.NoError(t, yamlStore.Save(ctx, id, attachment.New("a.txt", []byte("a"))))

		gobStore := recordfirestore.NewStore[*attachment.Attachment](client, serde.NewGOB(newAttachment))
		_, err := gobStore.Get(ctx, id)
		assert.ErrorIs(t, err, record.ErrFormatMismatch)
	})
}
