package gallery

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

var (
	pngHeader  = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR")
	jpegHeader = []byte("\xff\xd8\xff\xe0\x00\x10JFIF\x00")
)

func mustUpload(t *testing.T, identity string, data []byte) Upload {
	t.Helper()
	u, err := FromBytes(identity, data)
	require.NoError(t, err)
	return u
}

func TestAddIsCumulativeAndOrderPreserving(t *testing.T) {
	s := NewStore(DedupIdentity)
	a := mustUpload(t, "/tmp/a.png", pngHeader)
	b := mustUpload(t, "/tmp/b.jpg", jpegHeader)
	c := mustUpload(t, "/tmp/c.jpeg", append([]byte{}, jpegHeader...))

	require.Equal(t, 2, s.Add(a, b))
	require.Equal(t, 1, s.Add(b, c))
	require.Equal(t, 3, s.Count())

	names := []string{}
	for _, img := range s.Images() {
		names = append(names, img.Name)
	}
	require.Equal(t, []string{"a.png", "b.jpg", "c.jpeg"}, names)
}

func TestCountMatchesDistinctRegardlessOfBatching(t *testing.T) {
	uploads := []Upload{
		mustUpload(t, "1.png", pngHeader),
		mustUpload(t, "2.png", pngHeader),
		mustUpload(t, "3.png", pngHeader),
		mustUpload(t, "2.png", pngHeader),
		mustUpload(t, "1.png", pngHeader),
	}
	batched := NewStore(DedupIdentity)
	batched.Add(uploads...)

	single := NewStore(DedupIdentity)
	for _, u := range uploads {
		single.Add(u)
	}
	require.Equal(t, 3, batched.Count())
	require.Equal(t, batched.Count(), single.Count())
}

func TestIdentityPolicyKeepsIdenticalBytesFromDistinctFiles(t *testing.T) {
	s := NewStore(DedupIdentity)
	s.Add(mustUpload(t, "left.png", pngHeader), mustUpload(t, "right.png", pngHeader))
	require.Equal(t, 2, s.Count())
}

func TestContentPolicyDropsIdenticalBytes(t *testing.T) {
	s := NewStore(DedupContent)
	s.Add(mustUpload(t, "left.png", pngHeader), mustUpload(t, "right.png", pngHeader))
	require.Equal(t, 1, s.Count())
	require.Equal(t, "left.png", s.Images()[0].Name)
}

func TestClearResetsUntilNextAdd(t *testing.T) {
	s := NewStore(DedupContent)
	a := mustUpload(t, "a.png", pngHeader)
	s.Add(a)
	s.Clear()
	for i := 0; i < 3; i++ {
		require.Equal(t, 0, s.Count())
	}
	require.Equal(t, 1, s.Add(a), "cleared images can be added again")
}

func TestRemaining(t *testing.T) {
	s := NewStore(DedupIdentity)
	require.Equal(t, 3, s.Remaining(3))
	s.Add(mustUpload(t, "a.png", pngHeader), mustUpload(t, "b.png", pngHeader))
	require.Equal(t, 1, s.Remaining(3))
	s.Add(mustUpload(t, "c.png", pngHeader), mustUpload(t, "d.png", pngHeader))
	require.Equal(t, 0, s.Remaining(3))
}

func TestImagesReturnsCopy(t *testing.T) {
	s := NewStore(DedupIdentity)
	s.Add(mustUpload(t, "a.png", pngHeader))
	imgs := s.Images()
	imgs[0].Name = "mutated"
	require.Equal(t, "a.png", s.Images()[0].Name)
}

func TestRejectsUnsupportedTypes(t *testing.T) {
	_, err := FromBytes("notes.txt", []byte("hello"))
	require.True(t, errors.Is(err, ErrUnsupportedType))

	_, err = FromBytes("fake.png", []byte("plain text pretending"))
	require.True(t, errors.Is(err, ErrUnsupportedType))
}

func TestOpenUsesAbsolutePathAsIdentity(t *testing.T) {
	dir := t.TempDir()
	p := filepath.Join(dir, "shot.JPG")
	require.NoError(t, os.WriteFile(p, jpegHeader, 0o644))

	u, err := Open(p)
	require.NoError(t, err)
	require.Equal(t, p, u.Identity)
	require.Equal(t, "image/jpeg", u.ContentType)
	require.Len(t, u.Fingerprint, 64)

	s := NewStore(DedupIdentity)
	again, err := Open(p)
	require.NoError(t, err)
	require.Equal(t, 1, s.Add(u, again))
}

func TestParseDedupPolicy(t *testing.T) {
	p, err := ParseDedupPolicy("")
	require.NoError(t, err)
	require.Equal(t, DedupContent, p)

	p, err = ParseDedupPolicy(" Identity ")
	require.NoError(t, err)
	require.Equal(t, DedupIdentity, p)

	_, err = ParseDedupPolicy("hash")
	require.Error(t, err)
}
