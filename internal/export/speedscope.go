package export

// Speedscope file format, see
// https://github.com/jlfwong/speedscope/blob/main/src/lib/file-format-spec.ts

const (
	speedscopeSchema = "https://www.speedscope.app/file-format-schema.json"
	profileSampled   = "sampled"
	unitNone         = "none"
)

type SpeedscopeFile struct {
	Schema             string              `json:"$schema"`
	Shared             SpeedscopeShared    `json:"shared"`
	Profiles           []SpeedscopeProfile `json:"profiles"`
	Name               string              `json:"name,omitempty"`
	ActiveProfileIndex int                 `json:"activeProfileIndex"`
	Exporter           string              `json:"exporter,omitempty"`
}

type SpeedscopeShared struct {
	Frames []SpeedscopeFrame `json:"frames"`
}

type SpeedscopeFrame struct {
	Name string `json:"name"`
}

type SpeedscopeProfile struct {
	Type       string  `json:"type"`
	Name       string  `json:"name"`
	Unit       string  `json:"unit"`
	StartValue int     `json:"startValue"`
	EndValue   int     `json:"endValue"`
	Samples    [][]int `json:"samples"`
	Weights    []int   `json:"weights"`
}

// SpeedscopeDocument converts the samples into a single sampled profile with a
// shared frame table. Every sample weighs one tick.
func (f *Flat) SpeedscopeDocument(name, exporter string) *SpeedscopeFile {
	index := make(map[string]int)
	var frames []SpeedscopeFrame
	samples := make([][]int, len(f.Samples))
	weights := make([]int, len(f.Samples))
	for i, s := range f.Samples {
		stack := make([]int, len(s.Frames))
		for j, n := range s.Frames {
			idx, ok := index[n]
			if !ok {
				idx = len(frames)
				index[n] = idx
				frames = append(frames, SpeedscopeFrame{Name: n})
			}
			stack[j] = idx
		}
		samples[i] = stack
		weights[i] = 1
	}
	if frames == nil {
		frames = []SpeedscopeFrame{}
	}
	return &SpeedscopeFile{
		Schema:   speedscopeSchema,
		Shared:   SpeedscopeShared{Frames: frames},
		Name:     name,
		Exporter: exporter,
		Profiles: []SpeedscopeProfile{{
			Type:     profileSampled,
			Name:     name,
			Unit:     unitNone,
			EndValue: len(f.Samples),
			Samples:  samples,
			Weights:  weights,
		}},
	}
}
