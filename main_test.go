package main

import (
	"testing"

	"github.com/fatih/color"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/suite"

	"github.com/qphound/qphound/qpextract"
)

// MainTestSuite defines a test suite for the main package helpers.
type MainTestSuite struct {
	suite.Suite
}

// SetupSuite disables colored output for the duration of the suite.
func (s *MainTestSuite) SetupSuite() {
	originalNoColor := color.NoColor
	color.NoColor = true

	s.T().Cleanup(func() {
		color.NoColor = originalNoColor
	})
}

// TestParseProbeArg tests parsing of --probe coordinate arguments.
func (s *MainTestSuite) TestParseProbeArg() {
	testCases := []struct {
		name      string
		arg       string
		expectedX int
		expectedY int
		expectErr bool
	}{
		{
			name:      "Simple",
			arg:       "12,34",
			expectedX: 12,
			expectedY: 34,
		},
		{
			name:      "With_Spaces",
			arg:       " 8 , 16 ",
			expectedX: 8,
			expectedY: 16,
		},
		{
			name:      "Origin",
			arg:       "0,0",
			expectedX: 0,
			expectedY: 0,
		},
		{
			name:      "Missing_Y",
			arg:       "12",
			expectErr: true,
		},
		{
			name:      "Too_Many_Parts",
			arg:       "1,2,3",
			expectErr: true,
		},
		{
			name:      "Non_Numeric",
			arg:       "a,b",
			expectErr: true,
		},
		{
			name:      "Negative_Coordinate",
			arg:       "-1,2",
			expectErr: true,
		},
	}

	for _, tc := range testCases {
		s.Run(tc.name, func() {
			x, y, err := parseProbeArg(tc.arg)
			if tc.expectErr {
				assert.Error(s.T(), err, "Expected parse error")
				return
			}
			assert.NoError(s.T(), err, "Unexpected parse error")
			assert.Equal(s.T(), tc.expectedX, x, "Parsed x incorrect")
			assert.Equal(s.T(), tc.expectedY, y, "Parsed y incorrect")
		})
	}
}

// TestFormatQPRange tests the QP bounds display format.
func (s *MainTestSuite) TestFormatQPRange() {
	assert.Equal(s.T(), "18-41",
		formatQPRange(qpextract.QPBounds{MinMinQP: 18, MaxMaxQP: 41}),
		"QP range format incorrect")
}

// TestMainSuite runs the main package test suite.
func TestMainSuite(t *testing.T) {
	suite.Run(t, new(MainTestSuite))
}
