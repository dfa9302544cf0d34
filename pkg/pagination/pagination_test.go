package pagination

import (
	"testing"
	"time"

	"github.com/google/uuid"
)

func TestNormalizeLimit(t *testing.T) {
	t.Parallel()

	cases := []struct {
		in   int
		want int
	}{
		{0, DefaultLimit},
		{-5, DefaultLimit},
		{10, 10},
		{MaxLimit, MaxLimit},
		{MaxLimit + 50, MaxLimit},
	}
	for _, tc := range cases {
		if got := NormalizeLimit(tc.in); got != tc.want {
			t.Fatalf("NormalizeLimit(%d) = %d, want %d", tc.in, got, tc.want)
		}
	}
}

func TestCursorRoundTrip(t *testing.T) {
	t.Parallel()

	want := Cursor{
		CreatedAt: time.Date(2026, 3, 14, 9, 26, 53, 589_000_000, time.UTC),
		ID:        uuid.New(),
	}
	got, err := ParseCursor(EncodeCursor(want))
	if err != nil {
		t.Fatalf("ParseCursor: %v", err)
	}
	if !got.CreatedAt.Equal(want.CreatedAt) || got.ID != want.ID {
		t.Fatalf("cursor = %+v, want %+v", got, want)
	}
}

func TestParseCursorEmpty(t *testing.T) {
	t.Parallel()

	cursor, err := ParseCursor("  ")
	if err != nil || cursor != nil {
		t.Fatalf("blank cursor should be nil, got %v / %v", cursor, err)
	}
}

func TestParseCursorGarbage(t *testing.T) {
	t.Parallel()

	if _, err := ParseCursor("not base64!!"); err == nil {
		t.Fatal("garbage cursor must fail")
	}
	if _, err := ParseCursor("bm8gcGlwZQ=="); err == nil {
		t.Fatal("cursor without separator must fail")
	}
}
