package domain_test

import (
	"testing"
	"time"

	"github.com/Amund211/gamelens/internal/domain"
	"github.com/stretchr/testify/require"
)

func TestParseDate(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name     string
		raw      string
		expected time.Time
	}{
		{
			name:     "empty",
			raw:      "",
			expected: domain.UnknownTime,
		},
		{
			name:     "whitespace",
			raw:      "   ",
			expected: domain.UnknownTime,
		},
		{
			name:     "day month year",
			raw:      "15/03/2023",
			expected: time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "day month year is not month day year",
			raw:      "03/04/2023",
			expected: time.Date(2023, time.April, 3, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "single digit components",
			raw:      "1/2/2024",
			expected: time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "month out of range",
			raw:      "15/13/2023",
			expected: domain.UnknownTime,
		},
		{
			name:     "day out of range for month",
			raw:      "31/02/2023",
			expected: domain.UnknownTime,
		},
		{
			name:     "too many slashes",
			raw:      "15/03/2023/1",
			expected: domain.UnknownTime,
		},
		{
			name:     "non numeric slash date",
			raw:      "aa/bb/cccc",
			expected: domain.UnknownTime,
		},
		{
			name:     "rfc3339",
			raw:      "2024-05-06T07:08:09Z",
			expected: time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC),
		},
		{
			name:     "rfc3339 with offset",
			raw:      "2024-05-06T09:08:09+02:00",
			expected: time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC),
		},
		{
			name:     "fractional seconds",
			raw:      "2024-05-06T07:08:09.123Z",
			expected: time.Date(2024, time.May, 6, 7, 8, 9, 123_000_000, time.UTC),
		},
		{
			name:     "no zone",
			raw:      "2024-05-06T07:08:09",
			expected: time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC),
		},
		{
			name:     "space separated",
			raw:      "2024-05-06 07:08:09",
			expected: time.Date(2024, time.May, 6, 7, 8, 9, 0, time.UTC),
		},
		{
			name:     "date only",
			raw:      "2024-05-06",
			expected: time.Date(2024, time.May, 6, 0, 0, 0, 0, time.UTC),
		},
		{
			name:     "garbage",
			raw:      "yesterday",
			expected: domain.UnknownTime,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()

			parsed := domain.ParseDate(c.raw)
			require.True(t, c.expected.Equal(parsed), "expected %s, got %s", c.expected, parsed)
		})
	}
}

func TestParseDateStrict(t *testing.T) {
	t.Parallel()

	t.Run("malformed", func(t *testing.T) {
		t.Parallel()

		for _, raw := range []string{"", "garbage", "1/1", "32/01/2020"} {
			parsed, err := domain.ParseDateStrict(raw)
			require.ErrorIs(t, err, domain.ErrMalformedDate)
			require.True(t, domain.IsUnknown(parsed))
		}
	})

	t.Run("valid", func(t *testing.T) {
		t.Parallel()

		parsed, err := domain.ParseDateStrict("15/03/2023")
		require.NoError(t, err)
		require.Equal(t, time.Date(2023, time.March, 15, 0, 0, 0, 0, time.UTC), parsed)
	})
}

func TestUnknownTime(t *testing.T) {
	t.Parallel()

	t.Run("unknown values compare equal", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, 0, domain.ParseDate("").Compare(domain.ParseDate("garbage")))
		require.True(t, domain.IsUnknown(domain.ParseDate("")))
	})

	t.Run("unknown sorts before real dates", func(t *testing.T) {
		t.Parallel()

		parsed := domain.ParseDate("01/01/1971")
		require.True(t, domain.UnknownTime.Before(parsed))
	})

	t.Run("sentinel is the epoch", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, int64(0), domain.UnknownTime.Unix())
	})
}
