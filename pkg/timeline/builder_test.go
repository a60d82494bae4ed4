package timeline

import (
	"errors"
	"testing"

	"vsubgo/pkg/model"
)

func timedWord(text string, start, dur int64) *model.Word {
	w := &model.Word{Text: text}
	w.SetTiming(start, dur)
	return w
}

func lanes(blocks []Block, lane Lane) []Block {
	var out []Block
	for _, b := range blocks {
		if b.Lane == lane {
			out = append(out, b)
		}
	}
	return out
}

func TestBuild_SoundEffectOnWord(t *testing.T) {
	// "boom" speaks at 1200 for 300ms and carries an 800ms effect
	// starting with the word.
	w := timedWord("boom", 1200, 300)
	w.SetAudio("sounds/boom.mp3")
	if err := w.ConfigureAudio(0, model.FixedLength(800), 0.8); err != nil {
		t.Fatal(err)
	}

	blocks, err := Build(&model.Sentence{Words: []*model.Word{w}})
	if err != nil {
		t.Fatal(err)
	}

	speech := lanes(blocks, LaneSpeech)
	if len(speech) != 1 || speech[0].StartMS != 1200 || speech[0].EndMS != 1500 {
		t.Fatalf("speech block wrong: %+v", speech)
	}
	audio := lanes(blocks, LaneAudio)
	if len(audio) != 1 {
		t.Fatalf("expected one audio block, got %d", len(audio))
	}
	if audio[0].StartMS != 1200 || audio[0].EndMS != 2000 {
		t.Fatalf("audio block wrong: start=%d end=%d", audio[0].StartMS, audio[0].EndMS)
	}
}

func TestBuild_NegativeOffsetNotClipped(t *testing.T) {
	// Ambience that fades in half a second before the first word.
	w := timedWord("ambient-start", 0, 400)
	w.SetAudio("sounds/wind.mp3")
	if err := w.ConfigureAudio(-500, model.FixedLength(5000), 0.3); err != nil {
		t.Fatal(err)
	}

	blocks, err := Build(&model.Sentence{Words: []*model.Word{w}})
	if err != nil {
		t.Fatal(err)
	}

	audio := lanes(blocks, LaneAudio)
	if audio[0].StartMS != -500 {
		t.Fatalf("negative start must survive, got %d", audio[0].StartMS)
	}
	if audio[0].EndMS != 4500 {
		t.Fatalf("end wrong, got %d", audio[0].EndMS)
	}
}

func TestBuild_NaturalLengthIsZeroLengthCue(t *testing.T) {
	w := timedWord("tada", 1000, 250)
	w.SetAudio("sounds/tada.mp3") // natural length by default

	blocks, err := Build(&model.Sentence{Words: []*model.Word{w}})
	if err != nil {
		t.Fatal(err)
	}

	audio := lanes(blocks, LaneAudio)
	if audio[0].StartMS != audio[0].EndMS {
		t.Fatalf("natural length must be a zero-length cue, got %d..%d", audio[0].StartMS, audio[0].EndMS)
	}
	if audio[0].StartMS != 1000 {
		t.Fatalf("cue misplaced at %d", audio[0].StartMS)
	}
}

func TestBuild_LaneGroupingAndOrder(t *testing.T) {
	w1 := timedWord("first", 0, 200)
	w1.SetImage("memes/late.png")
	if err := w1.ConfigureImage(900, model.FixedLength(500)); err != nil {
		t.Fatal(err)
	}
	w2 := timedWord("second", 300, 200)
	w2.SetImage("memes/early.png")
	if err := w2.ConfigureImage(-200, model.FixedLength(500)); err != nil {
		t.Fatal(err)
	}
	w3 := timedWord("third", 600, 200)
	w3.SetAudio("sounds/fx.mp3")

	blocks, err := Build(&model.Sentence{Words: []*model.Word{w1, w2, w3}})
	if err != nil {
		t.Fatal(err)
	}

	// Lanes grouped speech, image, audio.
	wantLanes := []Lane{LaneSpeech, LaneSpeech, LaneSpeech, LaneImage, LaneImage, LaneAudio}
	for i, b := range blocks {
		if b.Lane != wantLanes[i] {
			t.Fatalf("block %d in lane %s, want %s", i, b.Lane, wantLanes[i])
		}
	}

	// Within the image lane, w2's image (starts 100) precedes w1's
	// (starts 900) even though w1 comes first in the sentence.
	image := lanes(blocks, LaneImage)
	if image[0].WordIndex != 1 || image[1].WordIndex != 0 {
		t.Fatalf("image lane not ordered by start: %+v", image)
	}

	// Non-decreasing start within every lane.
	for _, lane := range []Lane{LaneSpeech, LaneImage, LaneAudio} {
		bs := lanes(blocks, lane)
		for i := 1; i < len(bs); i++ {
			if bs[i].StartMS < bs[i-1].StartMS {
				t.Fatalf("%s lane regresses at %d: %+v", lane, i, bs)
			}
		}
	}
}

func TestBuild_TiesKeepWordOrder(t *testing.T) {
	w1 := timedWord("a", 500, 100)
	w1.SetAudio("sounds/one.mp3")
	if err := w1.ConfigureAudio(0, model.FixedLength(100), 1.0); err != nil {
		t.Fatal(err)
	}
	w2 := timedWord("b", 500, 100)
	w2.SetAudio("sounds/two.mp3")
	if err := w2.ConfigureAudio(0, model.FixedLength(100), 1.0); err != nil {
		t.Fatal(err)
	}

	blocks, err := Build(&model.Sentence{Words: []*model.Word{w1, w2}})
	if err != nil {
		t.Fatal(err)
	}
	audio := lanes(blocks, LaneAudio)
	if audio[0].WordIndex != 0 || audio[1].WordIndex != 1 {
		t.Fatalf("tie broke word order: %+v", audio)
	}
}

func TestBuild_OverlappingBlocksAllAppear(t *testing.T) {
	// Background ambience under a punchy effect: both must stay.
	w1 := timedWord("storm", 0, 300)
	w1.SetAudio("sounds/rain.mp3")
	if err := w1.ConfigureAudio(0, model.FixedLength(10000), 0.2); err != nil {
		t.Fatal(err)
	}
	w2 := timedWord("thunder", 400, 300)
	w2.SetAudio("sounds/clap.mp3")
	if err := w2.ConfigureAudio(0, model.FixedLength(1200), 0.9); err != nil {
		t.Fatal(err)
	}

	blocks, err := Build(&model.Sentence{Words: []*model.Word{w1, w2}})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(lanes(blocks, LaneAudio)); got != 2 {
		t.Fatalf("overlapping audio blocks must not merge, got %d", got)
	}
}

func TestBuild_MalformedValuesPropagate(t *testing.T) {
	// A negative duration is nonsense, but rejecting it is the editing
	// layer's job. The builder passes it through.
	w := timedWord("odd", 100, -50)

	blocks, err := Build(&model.Sentence{Words: []*model.Word{w}})
	if err != nil {
		t.Fatal(err)
	}
	if blocks[0].EndMS != 50 {
		t.Fatalf("got end %d, want raw 50", blocks[0].EndMS)
	}
}

func TestBuild_MissingTiming(t *testing.T) {
	s := &model.Sentence{Words: []*model.Word{{Text: "untimed"}}}
	_, err := Build(s)
	if !errors.Is(err, model.ErrMissingTimingData) {
		t.Fatalf("want ErrMissingTimingData, got %v", err)
	}
}

func TestBuildProject_PartialFailure(t *testing.T) {
	good := &model.Sentence{Words: []*model.Word{timedWord("ok", 0, 100)}}
	bad := &model.Sentence{Words: []*model.Word{{Text: "untimed"}}}

	blocks, err := BuildProject(&model.Project{Sentences: []*model.Sentence{good, bad}})
	if !errors.Is(err, model.ErrMissingTimingData) {
		t.Fatalf("want joined ErrMissingTimingData, got %v", err)
	}
	if len(blocks) != 1 {
		t.Fatalf("good sentence must still build, got %d blocks", len(blocks))
	}
}

func TestMediaLabel_Truncation(t *testing.T) {
	cases := []struct{ in, want string }{
		{"sounds/boom.mp3", "boom.mp3"},
		{"memes/abcdefghijklm.png", "abcdefghi..."},
		{"short.png", "short.png"},
		{"twelve.chars", "twelve.chars"}, // exactly 12, kept whole
	}

	for _, tc := range cases {
		if got := mediaLabel(tc.in); got != tc.want {
			t.Errorf("mediaLabel(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}
