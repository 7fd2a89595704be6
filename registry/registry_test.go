package registry

import (
	"testing"

	"github.com/stretchr/testify/require"

	"diskimage/filter"
	"diskimage/image"
)

type stubPlugin struct {
	name    string
	claims  bool
	openErr error
	opened  bool
}

func (s *stubPlugin) Name() string { return s.name }
func (s *stubPlugin) Identify(f filter.Filter) bool { return s.claims }
func (s *stubPlugin) Open(f filter.Filter) error {
	s.opened = true
	return s.openErr
}
func (s *stubPlugin) Info() *image.Info                  { return &image.Info{} }
func (s *stubPlugin) VerifySector(lba int64) (*bool, error) { return nil, nil }
func (s *stubPlugin) Close() error                        { return nil }

func TestDetectReturnsFirstMatch(t *testing.T) {
	r := New()
	miss := &stubPlugin{name: "miss", claims: false}
	hit := &stubPlugin{name: "hit", claims: true}
	r.Register(func() image.Plugin { return miss })
	r.Register(func() image.Plugin { return hit })

	p, err := r.Detect(filter.NewBytes("x", []byte("data")))
	require.NoError(t, err)
	require.Equal(t, "hit", p.Name())
}

func TestDetectNoMatchReturnsNotIdentified(t *testing.T) {
	r := New()
	r.Register(func() image.Plugin { return &stubPlugin{name: "miss", claims: false} })

	_, err := r.Detect(filter.NewBytes("x", []byte("data")))
	require.Error(t, err)
	var imgErr *image.Error
	require.ErrorAs(t, err, &imgErr)
	require.Equal(t, image.NotIdentified, imgErr.Kind)
}

func TestOpenDetectsThenOpens(t *testing.T) {
	r := New()
	hit := &stubPlugin{name: "hit", claims: true}
	r.Register(func() image.Plugin { return hit })

	p, err := r.Open(filter.NewBytes("x", []byte("data")))
	require.NoError(t, err)
	require.True(t, p.(*stubPlugin).opened)
}

func TestEachDetectCallGetsFreshInstance(t *testing.T) {
	r := New()
	calls := 0
	r.Register(func() image.Plugin {
		calls++
		return &stubPlugin{name: "hit", claims: true}
	})

	_, err := r.Detect(filter.NewBytes("x", []byte("data")))
	require.NoError(t, err)
	_, err = r.Detect(filter.NewBytes("y", []byte("data")))
	require.NoError(t, err)
	require.Equal(t, 2, calls)
}
