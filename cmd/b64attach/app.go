package main

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/get-eventually/go-base64bytes/attachment"
	"github.com/get-eventually/go-base64bytes/logger"
	"github.com/get-eventually/go-base64bytes/postgres"
	"github.com/get-eventually/go-base64bytes/serde"
)

var (
	errUsage            = errors.New("b64attach: invalid usage, run with no arguments to see the available commands")
	errChecksumMismatch = errors.New("b64attach: attachment checksum does not match its content")
	errContentTooLarge  = errors.New("b64attach: content exceeds the maximum size")
	errNoDatabase       = errors.New("b64attach: DATABASE_URL is not set")
)

const usage = `usage: b64attach COMMAND [ARGS]

commands:
  pack NAME [FILE]   write an attachment record with the content of FILE (or stdin)
  unpack             read an attachment record from stdin and write its content
  inspect            read an attachment record from stdin and print a summary
  convert FORMAT     read an attachment record from stdin and write it in FORMAT
  migrate            run the PostgreSQL migrations
  save NAME [FILE]   store an attachment in PostgreSQL and print its id
  load ID            write the content of an attachment stored in PostgreSQL
`

// recordOverhead is the room left for the name, the checksum and the
// format framing of an attachment record, on top of its encoded content.
const recordOverhead = 64 << 10

type app struct {
	config *config
	logger logger.Logger
	stdin  io.Reader
	stdout io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) == 0 {
		_, _ = io.WriteString(a.stdout, usage)
		return nil
	}

	command, args := args[0], args[1:]

	switch {
	case command == "pack" && (len(args) == 1 || len(args) == 2):
		return a.pack(args)
	case command == "unpack" && len(args) == 0:
		return a.unpack()
	case command == "inspect" && len(args) == 0:
		return a.inspect()
	case command == "convert" && len(args) == 1:
		return a.convert(args[0])
	case command == "migrate" && len(args) == 0:
		return a.migrate()
	case command == "save" && (len(args) == 1 || len(args) == 2):
		return a.save(ctx, args)
	case command == "load" && len(args) == 1:
		return a.load(ctx, args[0])
	default:
		return fmt.Errorf("%w: %q with %d arguments", errUsage, command, len(args))
	}
}

func (a *app) serde() (serde.Described[*attachment.Attachment, []byte], error) {
	s, err := attachment.SerdeFor(a.config.Format)
	if err != nil {
		return s, fmt.Errorf("b64attach: invalid configured format, %w", err)
	}

	return s, nil
}

// readContent reads the attachment content from the file named in args[1],
// or from stdin if no file is given.
func (a *app) readContent(args []string) ([]byte, error) {
	r := a.stdin

	if len(args) == 2 {
		f, err := os.Open(args[1])
		if err != nil {
			return nil, fmt.Errorf("b64attach: failed to open content file, %w", err)
		}

		defer f.Close()

		r = f
	}

	content, err := io.ReadAll(io.LimitReader(r, a.config.MaxSize+1))
	if err != nil {
		return nil, fmt.Errorf("b64attach: failed to read content, %w", err)
	}

	if int64(len(content)) > a.config.MaxSize {
		return nil, fmt.Errorf("%w (%d bytes)", errContentTooLarge, a.config.MaxSize)
	}

	return content, nil
}

// readAttachment reads a serialized attachment record from stdin,
// and verifies its checksum.
func (a *app) readAttachment() (*attachment.Attachment, error) {
	s, err := a.serde()
	if err != nil {
		return nil, err
	}

	maxRecordSize := 4*a.config.MaxSize/3 + recordOverhead

	data, err := io.ReadAll(io.LimitReader(a.stdin, maxRecordSize+1))
	if err != nil {
		return nil, fmt.Errorf("b64attach: failed to read attachment record, %w", err)
	}

	if int64(len(data)) > maxRecordSize {
		return nil, fmt.Errorf("%w (record over %d bytes)", errContentTooLarge, maxRecordSize)
	}

	att, err := s.Deserialize(data)
	if err != nil {
		return nil, fmt.Errorf("b64attach: failed to decode attachment record, %w", err)
	}

	if !att.Verify() {
		return nil, fmt.Errorf("%w: %q", errChecksumMismatch, att.Name)
	}

	return att, nil
}

func (a *app) write(s serde.Serializer[*attachment.Attachment, []byte], att *attachment.Attachment) error {
	data, err := s.Serialize(att)
	if err != nil {
		return fmt.Errorf("b64attach: failed to encode attachment record, %w", err)
	}

	if _, err := a.stdout.Write(data); err != nil {
		return fmt.Errorf("b64attach: failed to write attachment record, %w", err)
	}

	return nil
}

func (a *app) pack(args []string) error {
	s, err := a.serde()
	if err != nil {
		return err
	}

	content, err := a.readContent(args)
	if err != nil {
		return err
	}

	att := attachment.New(args[0], content)

	logger.Debug(a.logger, "packing attachment",
		logger.With("name", att.Name),
		logger.With("size", len(content)),
		logger.With("format", s.Format().Name),
	)

	return a.write(s, att)
}

func (a *app) unpack() error {
	att, err := a.readAttachment()
	if err != nil {
		return err
	}

	logger.Debug(a.logger, "unpacking attachment", logger.With("name", att.Name))

	if _, err := a.stdout.Write(att.Content); err != nil {
		return fmt.Errorf("b64attach: failed to write content, %w", err)
	}

	return nil
}

func (a *app) inspect() error {
	att, err := a.readAttachment()
	if err != nil {
		return err
	}

	_, err = fmt.Fprintf(a.stdout, "name: %s\nsize: %d\nsha256: %s\n", att.Name, len(att.Content), att.Checksum)
	if err != nil {
		return fmt.Errorf("b64attach: failed to write summary, %w", err)
	}

	return nil
}

func (a *app) convert(format string) error {
	target, err := attachment.SerdeFor(format)
	if err != nil {
		return fmt.Errorf("b64attach: invalid target format, %w", err)
	}

	att, err := a.readAttachment()
	if err != nil {
		return err
	}

	logger.Debug(a.logger, "converting attachment",
		logger.With("name", att.Name),
		logger.With("from", a.config.Format),
		logger.With("to", format),
	)

	return a.write(target, att)
}

func (a *app) migrate() error {
	if a.config.DatabaseURL == "" {
		return errNoDatabase
	}

	if err := postgres.RunMigrations(a.config.DatabaseURL); err != nil {
		return fmt.Errorf("b64attach: failed to run migrations, %w", err)
	}

	logger.Info(a.logger, "migrations applied")

	return nil
}

func (a *app) store(ctx context.Context) (*postgres.Store[*attachment.Attachment], func(), error) {
	if a.config.DatabaseURL == "" {
		return nil, nil, errNoDatabase
	}

	s, err := a.serde()
	if err != nil {
		return nil, nil, err
	}

	conn, err := pgxpool.New(ctx, a.config.DatabaseURL)
	if err != nil {
		return nil, nil, fmt.Errorf("b64attach: failed to connect to database, %w", err)
	}

	store := postgres.NewStore[*attachment.Attachment](conn, s,
		postgres.WithLogger[*attachment.Attachment](a.logger),
	)

	return store, conn.Close, nil
}

func (a *app) save(ctx context.Context, args []string) error {
	content, err := a.readContent(args)
	if err != nil {
		return err
	}

	store, closeStore, err := a.store(ctx)
	if err != nil {
		return err
	}

	defer closeStore()

	id := uuid.New()
	if err := store.Save(ctx, id, attachment.New(args[0], content)); err != nil {
		return fmt.Errorf("b64attach: failed to save attachment, %w", err)
	}

	_, err = fmt.Fprintln(a.stdout, id)

	return err
}

func (a *app) load(ctx context.Context, rawID string) error {
	id, err := uuid.Parse(rawID)
	if err != nil {
		return fmt.Errorf("b64attach: invalid attachment id, %w", err)
	}

	store, closeStore, err := a.store(ctx)
	if err != nil {
		return err
	}

	defer closeStore()

	att, err := store.Get(ctx, id)
	if err != nil {
		return fmt.Errorf("b64attach: failed to load attachment, %w", err)
	}

	if !att.Verify() {
		return fmt.Errorf("%w: %q", errChecksumMismatch, att.Name)
	}

	_, err = io.Copy(a.stdout, bytes.NewReader(att.Content))

	return err
}
