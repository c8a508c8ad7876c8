package database

import (
	"fmt"
	"math/rand"
	"testing"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func TestDB(t *testing.T) {
	t.Parallel()

	t.Run("db name", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "gamelens", DB_NAME)
	})

	t.Run("schema name", func(t *testing.T) {
		t.Parallel()

		require.Equal(t, "gamelens_test", GetSchemaName(true))
		require.Equal(t, "gamelens", GetSchemaName(false))
	})

	t.Run("cloud sql connection string", func(t *testing.T) {
		t.Parallel()

		require.Equal(
			t,
			"dbname=gamelens host=/cloudsql/project:region:instance password=pass user=user",
			GetCloudSQLConnectionString("user", "pass", "/cloudsql/project:region:instance"),
		)
	})

	t.Run("connection string quoting", func(t *testing.T) {
		t.Parallel()

		cases := []struct {
			value string
			want  string
		}{
			{value: "plain", want: "plain"},
			{value: "", want: "''"},
			{value: "with space", want: "'with space'"},
			{value: "it's", want: `'it\'s'`},
			{value: `back\slash`, want: `'back\\slash'`},
		}
		for _, c := range cases {
			require.Equal(t, c.want, quoteConnectionValue(c.value), c.value)
		}

		require.Equal(
			t,
			"dbname=gamelens host=/cloudsql/p:r:i password='hunter 2' user=app",
			GetCloudSQLConnectionString("app", "hunter 2", "/cloudsql/p:r:i"),
		)
	})

	if testing.Short() {
		t.Skip("skipping db tests in short mode.")
	}

	t.Run("NewPostgresDatabase", func(t *testing.T) {
		t.Parallel()

		db, err := NewPostgresDatabase(LOCAL_CONNECTION_STRING)
		require.NoError(t, err)
		require.NotNil(t, db)
		defer db.Close()

		require.Equal(t, maxOpenConnections, db.Stats().MaxOpenConnections)
		require.NoError(t, db.PingContext(t.Context()))
	})

	t.Run("createDatabaseIfNotExists", func(t *testing.T) {
		t.Parallel()

		db, err := sqlx.Connect("postgres", LOCAL_CONNECTION_STRING)
		require.NoError(t, err)
		t.Run("already existing", func(t *testing.T) {
			t.Parallel()

			err := createDatabaseIfNotExists(db, "postgres")
			require.NoError(t, err)

			err = createDatabaseIfNotExists(db, DB_NAME)
			require.NoError(t, err)
		})

		t.Run("new database", func(t *testing.T) {
			t.Parallel()

			const characters = "abcdefghijklmnopqrstuvwxyz"
			bytes := make([]byte, 10)
			for i := range bytes {
				bytes[i] = characters[rand.Intn(len(characters))]
			}

			dbName := fmt.Sprintf("zz_random_db_%s", string(bytes))

			err := createDatabaseIfNotExists(db, dbName)
			require.NoError(t, err)
		})
	})
}
