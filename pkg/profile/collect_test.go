package profile_test

import (
	"math/rand"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/ltprof/ltprof/pkg/profile"
)

func TestCollectHistogram(t *testing.T) {
	session := strings.Join([]string{
		"Catchpoint 1 (signal SIGPROF)",
		"PROFILE;foo;bar",
		"PROFILE;foo;bar",
		"PROFILE;baz",
		"",
	}, "\n")

	table, err := profile.Collect(strings.NewReader(session))
	require.NoError(t, err)

	require.Equal(t, profile.SampleTable{
		"foo;bar": 2,
		"baz":     1,
	}, table)
	require.Equal(t, uint64(3), table.Total())
}

func TestCollectIsOrderIndependent(t *testing.T) {
	lines := []string{
		"PROFILE;main;loop",
		"some debugger noise",
		"PROFILE;main;loop",
		"PROFILE;main;idle",
		"Program received signal SIGPROF, Profiling timer expired.",
		"PROFILE;gc",
	}

	want, err := profile.Collect(strings.NewReader(strings.Join(lines, "\n")))
	require.NoError(t, err)

	rng := rand.New(rand.NewSource(42))
	for i := 0; i < 10; i++ {
		shuffled := make([]string, len(lines))
		copy(shuffled, lines)
		rng.Shuffle(len(shuffled), func(a, b int) {
			shuffled[a], shuffled[b] = shuffled[b], shuffled[a]
		})

		got, err := profile.Collect(strings.NewReader(strings.Join(shuffled, "\n")))
		require.NoError(t, err)
		require.Equal(t, want, got)
	}
}

func TestCollectSumEqualsTaggedLines(t *testing.T) {
	var sb strings.Builder
	tagged := 0
	for i := 0; i < 100; i++ {
		if i%3 == 0 {
			sb.WriteString("noise line\n")
			continue
		}
		sb.WriteString("PROFILE;frame")
		sb.WriteString(strings.Repeat(";deeper", i%5))
		sb.WriteString("\n")
		tagged++
	}

	table, err := profile.Collect(strings.NewReader(sb.String()))
	require.NoError(t, err)
	require.Equal(t, uint64(tagged), table.Total())
}

func TestCollectIgnoresUntaggedAndEmpty(t *testing.T) {
	session := strings.Join([]string{
		"PROFILE;",     // tag with no signature: dropped
		"PROFILE;   ",  // whitespace only: dropped
		" PROFILE;foo", // tag not at line start: not a sample
		"PROFILE;foo  ",
	}, "\n")

	table, err := profile.Collect(strings.NewReader(session))
	require.NoError(t, err)

	require.Equal(t, profile.SampleTable{"foo": 1}, table,
		"surrounding whitespace must be stripped from the signature",
	)
}

func TestCollectEmptySession(t *testing.T) {
	table, err := profile.Collect(strings.NewReader(""))
	require.NoError(t, err)
	require.Empty(t, table)

	table, err = profile.Collect(strings.NewReader("no samples here\nat all\n"))
	require.NoError(t, err)
	require.Empty(t, table)
}

func TestCollectFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.txt")
	require.NoError(t, os.WriteFile(path, []byte("PROFILE;a;b\nPROFILE;a;b\n"), 0o644))

	table, err := profile.CollectFile(path)
	require.NoError(t, err)
	require.Equal(t, profile.SampleTable{"a;b": 2}, table)

	_, err = profile.CollectFile(filepath.Join(t.TempDir(), "missing.txt"))
	require.Error(t, err)
}
