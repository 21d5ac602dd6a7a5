package activity

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/wrapsnp/go-directory/pkg/types"
)

func TestSanitizeRecordMasksContactFields(t *testing.T) {
	record := types.ActivityRecord{
		Data: map[string]any{
			"phone": "+49 151 23456789",
			"email": "info@mustermann-folien.de",
			"slug":  "mustermann-folien",
		},
	}
	out := SanitizeRecord(DefaultMasker(), record)
	require.NotEqual(t, "+49 151 23456789", out.Data["phone"])
	require.NotEqual(t, "info@mustermann-folien.de", out.Data["email"])
	require.Equal(t, "mustermann-folien", out.Data["slug"])
}

func TestSanitizeRecordLeavesEmptyDataAlone(t *testing.T) {
	record := types.ActivityRecord{Verb: "profile.saved"}
	out := SanitizeRecord(DefaultMasker(), record)
	require.Nil(t, out.Data)
	require.Equal(t, "profile.saved", out.Verb)
}

func TestSanitizeRecordDoesNotMutateInput(t *testing.T) {
	data := map[string]any{"email": "info@mustermann-folien.de"}
	record := types.ActivityRecord{Data: data}

	_ = SanitizeRecord(DefaultMasker(), record)
	require.Equal(t, "info@mustermann-folien.de", data["email"])
}

type captureSink struct {
	records []types.ActivityRecord
}

func (s *captureSink) Log(_ context.Context, record types.ActivityRecord) error {
	s.records = append(s.records, record)
	return nil
}

func TestSanitizedSinkMasksBeforeForwarding(t *testing.T) {
	capture := &captureSink{}
	sink := NewSanitizedSink(capture, nil)

	err := sink.Log(context.Background(), types.ActivityRecord{
		Verb: "profile.saved",
		Data: map[string]any{"phone": "+49 151 23456789", "kind": "folierer"},
	})
	require.NoError(t, err)
	require.Len(t, capture.records, 1)
	require.NotEqual(t, "+49 151 23456789", capture.records[0].Data["phone"])
	require.Equal(t, "folierer", capture.records[0].Data["kind"])
}
