package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/reuselens/reuselens/pkg/analyzers/platform"
)

func validSignature() platform.Signature {
	return platform.Signature{
		ID:       "web.attr.test",
		Kind:     platform.KindAttribute,
		Category: platform.CategoryWeb,
		Name:     "onDrag",
		Reason:   "onDrag is a DOM event handler prop",
	}
}

func TestNewRegistry_Valid(t *testing.T) {
	t.Parallel()

	registry, err := platform.NewRegistry([]platform.Signature{validSignature()})
	require.NoError(t, err)
	assert.Len(t, registry.Signatures(), 1)
}

func TestNewRegistry_RejectsEmptyID(t *testing.T) {
	t.Parallel()

	sig := validSignature()
	sig.ID = ""

	_, err := platform.NewRegistry([]platform.Signature{sig})
	require.ErrorIs(t, err, platform.ErrRegistryMisconfigured)
}

func TestNewRegistry_RejectsDuplicateID(t *testing.T) {
	t.Parallel()

	_, err := platform.NewRegistry([]platform.Signature{validSignature(), validSignature()})
	require.ErrorIs(t, err, platform.ErrRegistryMisconfigured)
	assert.Contains(t, err.Error(), "web.attr.test")
}

func TestNewRegistry_RejectsSharedCategory(t *testing.T) {
	t.Parallel()

	sig := validSignature()
	sig.Category = platform.CategoryShared

	_, err := platform.NewRegistry([]platform.Signature{sig})
	require.ErrorIs(t, err, platform.ErrRegistryMisconfigured)
}

func TestNewRegistry_RejectsMissingReason(t *testing.T) {
	t.Parallel()

	sig := validSignature()
	sig.Reason = ""

	_, err := platform.NewRegistry([]platform.Signature{sig})
	require.ErrorIs(t, err, platform.ErrRegistryMisconfigured)
}

func TestNewRegistry_RejectsNamelessAttribute(t *testing.T) {
	t.Parallel()

	sig := validSignature()
	sig.Name = ""

	_, err := platform.NewRegistry([]platform.Signature{sig})
	require.ErrorIs(t, err, platform.ErrRegistryMisconfigured)
}

func TestNewRegistry_RejectsCallWithoutTarget(t *testing.T) {
	t.Parallel()

	sig := validSignature()
	sig.Kind = platform.KindCall
	sig.Name = ""
	sig.Object = ""

	_, err := platform.NewRegistry([]platform.Signature{sig})
	require.ErrorIs(t, err, platform.ErrRegistryMisconfigured)
}

func TestNewRegistry_RejectsMemberWithoutObject(t *testing.T) {
	t.Parallel()

	sig := validSignature()
	sig.Kind = platform.KindMember
	sig.Object = ""

	_, err := platform.NewRegistry([]platform.Signature{sig})
	require.ErrorIs(t, err, platform.ErrRegistryMisconfigured)
}

func TestNewRegistry_RejectsUnknownKind(t *testing.T) {
	t.Parallel()

	sig := validSignature()
	sig.Kind = "regex"

	_, err := platform.NewRegistry([]platform.Signature{sig})
	require.ErrorIs(t, err, platform.ErrRegistryMisconfigured)
}

func TestNewDefaultRegistry(t *testing.T) {
	t.Parallel()

	registry, err := platform.NewDefaultRegistry()
	require.NoError(t, err)

	assert.NotEmpty(t, registry.SignaturesFor(platform.CategoryWeb))
	assert.NotEmpty(t, registry.SignaturesFor(platform.CategoryNative))
	assert.Empty(t, registry.SignaturesFor(platform.CategoryShared))

	seen := make(map[string]bool)
	for _, sig := range registry.Signatures() {
		assert.False(t, seen[sig.ID], "duplicate id %s", sig.ID)
		seen[sig.ID] = true
	}
}

func TestSignatureMatcher(t *testing.T) {
	t.Parallel()

	cases := []struct {
		sig  platform.Signature
		want string
	}{
		{platform.Signature{Kind: platform.KindAttribute, Name: "className"}, "className"},
		{platform.Signature{Kind: platform.KindTag, Name: "View"}, "<View>"},
		{platform.Signature{Kind: platform.KindCall, Object: "StyleSheet", Property: "create"}, "StyleSheet.create()"},
		{platform.Signature{Kind: platform.KindCall, Object: "AsyncStorage"}, "AsyncStorage.*()"},
		{platform.Signature{Kind: platform.KindCall, Name: "fetch"}, "fetch()"},
		{platform.Signature{Kind: platform.KindMember, Object: "Platform", Property: "OS"}, "Platform.OS"},
		{platform.Signature{Kind: platform.KindMember, Object: "document"}, "document.*"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, tc.sig.Matcher())
	}
}
