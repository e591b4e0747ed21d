package schema

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBuilderValidation(t *testing.T) {
	var testcases = map[string]struct {
		build       func() (*Schema, error)
		expectedErr error
	}{
		`empty_name`: {
			build: func() (*Schema, error) {
				return NewBuilder().AddLong("", VisibilityPublic, 0).Build()
			},
			expectedErr: ErrEmptyPropertyName,
		},
		`duplicate_name`: {
			build: func() (*Schema, error) {
				return NewBuilder().
					AddLong("rank", VisibilityPublic, 0).
					AddDouble("rank", VisibilityPrivate, 0).
					Build()
			},
			expectedErr: ErrDuplicatePropertyName,
		},
		`valid`: {
			build: func() (*Schema, error) {
				return NewBuilder().
					AddLong("component", VisibilityPublic, -1).
					AddDoubleArray("embedding", VisibilityPrivate).
					Build()
			},
		},
	}

	for name, tc := range testcases {
		t.Run(name, func(t *testing.T) {
			s, err := tc.build()
			if tc.expectedErr != nil {
				require.ErrorIs(t, err, tc.expectedErr)
				return
			}
			require.NoError(t, err)
			require.NotNil(t, s)
		})
	}
}

func TestElementLookup(t *testing.T) {
	s := NewBuilder().
		AddLong("component", VisibilityPublic, -1).
		AddDouble("score", VisibilityPrivate, 1.5).
		MustBuild()

	require.Equal(t, 2, s.Len())
	require.True(t, s.Has("component"))
	require.False(t, s.Has("missing"))

	el, err := s.Element("score")
	require.NoError(t, err)
	require.Equal(t, ValueTypeDouble, el.Type)
	require.Equal(t, VisibilityPrivate, el.Visibility)
	require.Equal(t, 1.5, el.DefaultDouble)

	_, err = s.Element("missing")
	require.ErrorIs(t, err, ErrUnknownProperty)
}

func TestDeclarationOrderPreserved(t *testing.T) {
	s := NewBuilder().
		AddLong("a", VisibilityPublic, 0).
		AddLongArray("b", VisibilityPublic).
		AddDouble("c", VisibilityPublic, 0).
		MustBuild()

	var names []string
	for _, el := range s.Elements() {
		names = append(names, el.Name)
	}
	require.Equal(t, []string{"a", "b", "c"}, names)
}

func TestMustBuildPanics(t *testing.T) {
	require.Panics(t, func() {
		NewBuilder().AddLong("", VisibilityPublic, 0).MustBuild()
	})
}
