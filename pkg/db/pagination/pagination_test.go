package pagination

import "testing"

func TestCursorRoundTrip(t *testing.T) {
	token, err := EncodeCursor(Cursor{ID: "1234567890"})
	if err != nil {
		t.Fatalf("encode: %v", err)
	}

	cursor, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("decode: %v", err)
	}
	if cursor.ID != "1234567890" {
		t.Fatalf("cursor ID = %q, want 1234567890", cursor.ID)
	}
}

func TestDecodeCursorRejectsGarbage(t *testing.T) {
	if _, err := DecodeCursor("%%%not-base64%%%"); err == nil {
		t.Fatalf("expected error for invalid token")
	}
}

type row struct{ id string }

func TestBuildCursorPageInfo(t *testing.T) {
	extract := func(r *row) string { return r.id }

	if info := BuildCursorPageInfo(nil, 3, extract); info.HasMore || info.NextPageToken != "" {
		t.Fatalf("empty page: %+v", info)
	}

	rows := []*row{{"a"}, {"b"}, {"c"}, {"d"}}
	info := BuildCursorPageInfo(rows, 3, extract)
	if !info.HasMore {
		t.Fatalf("overfetched page must report has_more")
	}
	if info.NextPageToken != "c" {
		t.Fatalf("next token = %q, want c", info.NextPageToken)
	}

	info = BuildCursorPageInfo(rows[:2], 3, extract)
	if info.HasMore {
		t.Fatalf("short page must not report has_more")
	}
	if info.NextPageToken != "b" {
		t.Fatalf("next token = %q, want b", info.NextPageToken)
	}
}
