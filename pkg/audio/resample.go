package audio

// Resample8kTo16k resamples 8kHz PCM16 audio to 16kHz using linear interpolation
// Input: 16-bit signed little-endian PCM at 8kHz
// Output: 16-bit signed little-endian PCM at 16kHz
func Resample8kTo16k(pcm8k []byte) []byte {
	if len(pcm8k) == 0 {
		return nil
	}

	samples8k := bytesToSamples(pcm8k)

	// 8kHz -> 16kHz means 2x samples: each input sample is emitted
	// directly, followed by its interpolation with the next one.
	samples16k := make([]int16, len(samples8k)*2)
	for i := 0; i < len(samples8k); i++ {
		samples16k[i*2] = samples8k[i]

		if i < len(samples8k)-1 {
			samples16k[i*2+1] = int16((int32(samples8k[i]) + int32(samples8k[i+1])) / 2)
		} else {
			// Last sample: repeat
			samples16k[i*2+1] = samples8k[i]
		}
	}

	return samplesToBytes(samples16k)
}

// Resample16kTo8k resamples 16kHz PCM16 audio to 8kHz by decimation
// Input: 16-bit signed little-endian PCM at 16kHz
// Output: 16-bit signed little-endian PCM at 8kHz
func Resample16kTo8k(pcm16k []byte) []byte {
	if len(pcm16k) == 0 {
		return nil
	}

	samples16k := bytesToSamples(pcm16k)

	samples8k := make([]int16, len(samples16k)/2)
	for i := 0; i < len(samples8k); i++ {
		samples8k[i] = samples16k[i*2]
	}

	return samplesToBytes(samples8k)
}

// Resample24kTo8k resamples 24kHz PCM16 audio to 8kHz by taking every
// third sample. The speech model emits 24kHz output; the telephone leg
// wants 8kHz.
func Resample24kTo8k(pcm24k []byte) []byte {
	if len(pcm24k) == 0 {
		return nil
	}

	samples24k := bytesToSamples(pcm24k)

	samples8k := make([]int16, 0, len(samples24k)/3+1)
	for i := 0; i < len(samples24k); i += 3 {
		samples8k = append(samples8k, samples24k[i])
	}

	return samplesToBytes(samples8k)
}

func bytesToSamples(b []byte) []int16 {
	samples := make([]int16, len(b)/2)
	for i := 0; i < len(samples); i++ {
		samples[i] = int16(b[i*2]) | int16(b[i*2+1])<<8
	}
	return samples
}

func samplesToBytes(samples []int16) []byte {
	result := make([]byte, len(samples)*2)
	for i, sample := range samples {
		result[i*2] = byte(sample & 0xFF)
		result[i*2+1] = byte((sample >> 8) & 0xFF)
	}
	return result
}
