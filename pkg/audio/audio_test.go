package audio

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMuLawRoundTrip(t *testing.T) {
	// μ-law is lossy; a round-trip should land within the step size of
	// the segment the sample falls in.
	cases := []struct {
		sample    int16
		tolerance int32
	}{
		{0, 8},
		{100, 8},
		{-100, 8},
		{1000, 64},
		{-1000, 64},
		{8000, 256},
		{-8000, 256},
		{30000, 1024},
		{-30000, 1024},
	}

	for _, tc := range cases {
		encoded := EncodeMuLawSample(tc.sample)
		decoded := DecodeMuLawSample(encoded)

		diff := int32(tc.sample) - int32(decoded)
		if diff < 0 {
			diff = -diff
		}
		assert.LessOrEqual(t, diff, tc.tolerance, "sample %d decoded to %d", tc.sample, decoded)
	}
}

func TestMuLawSignPreserved(t *testing.T) {
	assert.Positive(t, DecodeMuLawSample(EncodeMuLawSample(5000)))
	assert.Negative(t, DecodeMuLawSample(EncodeMuLawSample(-5000)))
}

func TestDecodeMuLawToPCM16_Lengths(t *testing.T) {
	assert.Nil(t, DecodeMuLawToPCM16(nil))
	assert.Nil(t, DecodeMuLawToPCM16([]byte{}))

	out := DecodeMuLawToPCM16([]byte{0xFF, 0x7F, 0x00})
	assert.Len(t, out, 6)
}

func TestEncodePCM16ToMuLaw_Lengths(t *testing.T) {
	assert.Nil(t, EncodePCM16ToMuLaw(nil))
	assert.Nil(t, EncodePCM16ToMuLaw([]byte{0x01}))

	out := EncodePCM16ToMuLaw([]byte{0x00, 0x00, 0x10, 0x27})
	assert.Len(t, out, 2)
}

func TestResample8kTo16k(t *testing.T) {
	assert.Nil(t, Resample8kTo16k(nil))

	// Two samples: 100, 300. Expect 100, 200 (interpolated), 300, 300 (repeated).
	in := samplesToBytes([]int16{100, 300})
	out := bytesToSamples(Resample8kTo16k(in))

	require.Len(t, out, 4)
	assert.Equal(t, []int16{100, 200, 300, 300}, out)
}

func TestResample16kTo8k(t *testing.T) {
	assert.Nil(t, Resample16kTo8k(nil))

	in := samplesToBytes([]int16{10, 20, 30, 40})
	out := bytesToSamples(Resample16kTo8k(in))

	assert.Equal(t, []int16{10, 30}, out)
}

func TestResample24kTo8k(t *testing.T) {
	assert.Nil(t, Resample24kTo8k(nil))

	in := samplesToBytes([]int16{1, 2, 3, 4, 5, 6, 7})
	out := bytesToSamples(Resample24kTo8k(in))

	assert.Equal(t, []int16{1, 4, 7}, out)
}
