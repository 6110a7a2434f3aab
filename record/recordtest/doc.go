// Package recordtest contains a shared testing suite for record.Store
// implementations, storing attachment.Attachment records.
package recordtest
