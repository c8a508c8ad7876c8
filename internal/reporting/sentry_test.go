package reporting

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/getsentry/sentry-go"
	"github.com/stretchr/testify/require"
)

func TestSanitizeError(t *testing.T) {
	t.Parallel()

	cases := []struct {
		name string
		err  string
		want string
	}{
		{
			name: "ipv6 connection reset",
			err:  `failed to query latest snapshot: read tcp [dead:beef:feb1:d745::c001]:64079->[dead:beef::6811:112a]:5432: read: connection reset by peer`,
			want: `failed to query latest snapshot: read tcp <host>-><host>: read: connection reset by peer`,
		},
		{
			name: "ipv4 dial",
			err:  `failed to connect to db: dial tcp 10.12.0.3:5432: connect: connection refused`,
			want: `failed to connect to db: dial tcp <host>: connect: connection refused`,
		},
		{
			name: "dashed user id",
			err:  `failed to insert snapshot for user 0d6f4c1e-8a3b-4f5e-9d2c-3b1a7e6f5d4c: context deadline exceeded`,
			want: `failed to insert snapshot for user <uuid>: context deadline exceeded`,
		},
		{
			name: "stripped uppercase user id",
			err:  `user id '0D6F4C1E8A3B4F5E9D2C3B1A7E6F5D4C' is not normalized`,
			want: `user id '<uuid>' is not normalized`,
		},
		{
			name: "timings",
			err:  `migrate: lock timeout after 15s (took 1503.2ms)`,
			want: `migrate: lock timeout after <duration> (took <duration>)`,
		},
		{
			name: "game ids are kept",
			err:  `game console_network:NPWR001_00 not found in library`,
			want: `game console_network:NPWR001_00 not found in library`,
		},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			t.Parallel()
			require.Equal(t, c.want, sanitizeError(c.err))
		})
	}

	t.Run("ipv6 forms", func(t *testing.T) {
		t.Parallel()

		for _, ip := range []string{
			`1:2:3:4:5:6:7:8`,
			`1::`,
			`1::8`,
			`1:2:3:4:5:6::8`,
			`1:2:3::5:6:7:8`,
			`1::4:5:6:7:8`,
			`::2:3:4:5:6:7:8`,
			`::8`,
			`::`,
			`fe80::1`,
		} {
			require.Equal(t, "dial <host>", sanitizeError(fmt.Sprintf("dial [%s]:443", ip)), ip)
		}
	})
}

func TestDropCanceled(t *testing.T) {
	t.Parallel()

	event := &sentry.Event{Message: "failed"}

	require.Same(t, event, dropCanceled(event, nil))
	require.Same(t, event, dropCanceled(event, &sentry.EventHint{}))
	require.Same(t, event, dropCanceled(event, &sentry.EventHint{OriginalException: errors.New("db down")}))
	require.Nil(t, dropCanceled(event, &sentry.EventHint{OriginalException: context.Canceled}))
	require.Nil(t, dropCanceled(event, &sentry.EventHint{
		OriginalException: fmt.Errorf("failed to read body: %w", context.Canceled),
	}))

	// Deadlines are real failures
	require.Same(t, event, dropCanceled(event, &sentry.EventHint{OriginalException: context.DeadlineExceeded}))
}
