package whispercpp

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/virtuadex/videogrep/internal/types"
)

// Adapter transcribes media with the whisper.cpp binary and writes the
// canonical JSON transcript sidecar next to the input, where the locator will
// find it on the next run.
type Adapter struct {
	bin    string
	model  string
	ffmpeg string
}

func New(binPath, modelPath, ffmpegPath string) *Adapter {
	if ffmpegPath == "" {
		ffmpegPath = "ffmpeg"
	}
	return &Adapter{bin: binPath, model: modelPath, ffmpeg: ffmpegPath}
}

func (a *Adapter) Transcribe(ctx context.Context, mediaPath string) (types.Transcript, error) {
	tmpDir, err := os.MkdirTemp("", "videogrep-asr-*")
	if err != nil {
		return nil, err
	}
	defer os.RemoveAll(tmpDir)

	wav := filepath.Join(tmpDir, "audio.wav")
	if err := a.extractAudio(ctx, mediaPath, wav); err != nil {
		return nil, err
	}

	outPrefix := filepath.Join(tmpDir, "whisper")
	cmd := exec.CommandContext(ctx, a.bin,
		"-m", a.model,
		"-f", wav,
		"-ojf",
		"-of", outPrefix,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return nil, fmt.Errorf("whisper.cpp failed: %w\n%s", err, string(b))
	}

	jb, err := os.ReadFile(outPrefix + ".json")
	if err != nil {
		return nil, err
	}
	transcript, err := mapOutput(jb)
	if err != nil {
		return nil, err
	}

	sidecar := strings.TrimSuffix(mediaPath, filepath.Ext(mediaPath)) + ".json"
	data, err := json.MarshalIndent(transcript, "", "  ")
	if err != nil {
		return nil, err
	}
	if err := os.WriteFile(sidecar, data, 0o644); err != nil {
		return nil, fmt.Errorf("write transcript sidecar: %w", err)
	}
	return transcript, nil
}

func (a *Adapter) extractAudio(ctx context.Context, in, outWav string) error {
	cmd := exec.CommandContext(ctx, a.ffmpeg,
		"-y",
		"-i", in,
		"-vn",
		"-ac", "1",
		"-ar", "16000",
		"-f", "wav",
		outWav,
	)
	b, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("ffmpeg extract audio: %w\n%s", err, string(b))
	}
	return nil
}

// whisper.cpp -ojf layout, reduced to what the cue model needs.
type whisperOutput struct {
	Transcription []struct {
		Text    string        `json:"text"`
		Offsets whisperOffset `json:"offsets"`
		Tokens  []struct {
			Text    string        `json:"text"`
			Offsets whisperOffset `json:"offsets"`
		} `json:"tokens"`
	} `json:"transcription"`
}

type whisperOffset struct {
	From int64 `json:"from"` // milliseconds
	To   int64 `json:"to"`
}

func mapOutput(raw []byte) (types.Transcript, error) {
	var out whisperOutput
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, fmt.Errorf("decode whisper output: %w", err)
	}

	var transcript types.Transcript
	for _, seg := range out.Transcription {
		cue := types.Cue{
			Start:   float64(seg.Offsets.From) / 1000.0,
			End:     float64(seg.Offsets.To) / 1000.0,
			Content: strings.TrimSpace(seg.Text),
		}
		for _, tok := range seg.Tokens {
			word := strings.TrimSpace(tok.Text)
			// Special tokens like [_BEG_] carry no speech.
			if word == "" || strings.HasPrefix(word, "[_") {
				continue
			}
			cue.Words = append(cue.Words, types.Word{
				Word:  word,
				Start: float64(tok.Offsets.From) / 1000.0,
				End:   float64(tok.Offsets.To) / 1000.0,
			})
		}
		transcript = append(transcript, cue)
	}
	return transcript, nil
}
