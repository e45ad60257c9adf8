package whisper

// DefaultModelSize is used when the invocation does not name a model.
const DefaultModelSize = "base"

// Model describes one entry of the fixed model catalog: a faster-whisper
// model size and the CTranslate2 files that make it usable offline.
type Model struct {
	Size       string
	Repo       string
	Files      []string
	ApproxSize string
}

// sizeOrder fixes the catalog iteration order from smallest to largest,
// which is also the order the prefetch banner lists them in.
var sizeOrder = []string{"tiny", "base", "small", "medium", "large-v3"}

var catalog = map[string]Model{
	"tiny": {
		Size:       "tiny",
		Repo:       "Systran/faster-whisper-tiny",
		Files:      []string{"config.json", "model.bin", "tokenizer.json", "vocabulary.txt"},
		ApproxSize: "75 MB",
	},
	"base": {
		Size:       "base",
		Repo:       "Systran/faster-whisper-base",
		Files:      []string{"config.json", "model.bin", "tokenizer.json", "vocabulary.txt"},
		ApproxSize: "145 MB",
	},
	"small": {
		Size:       "small",
		Repo:       "Systran/faster-whisper-small",
		Files:      []string{"config.json", "model.bin", "tokenizer.json", "vocabulary.txt"},
		ApproxSize: "466 MB",
	},
	"medium": {
		Size:       "medium",
		Repo:       "Systran/faster-whisper-medium",
		Files:      []string{"config.json", "model.bin", "tokenizer.json", "vocabulary.txt"},
		ApproxSize: "1.5 GB",
	},
	"large-v3": {
		Size:       "large-v3",
		Repo:       "Systran/faster-whisper-large-v3",
		Files:      []string{"config.json", "preprocessor_config.json", "model.bin", "tokenizer.json", "vocabulary.json"},
		ApproxSize: "3 GB",
	},
}

// ModelSizes returns the catalog sizes in fixed smallest-to-largest order.
func ModelSizes() []string {
	sizes := make([]string, len(sizeOrder))
	copy(sizes, sizeOrder)
	return sizes
}

func LookupModel(size string) (Model, bool) {
	model, ok := catalog[size]
	return model, ok
}

// FileURL returns the download URL for one of the model's files.
func (m Model) FileURL(name string) string {
	return "https://huggingface.co/" + m.Repo + "/resolve/main/" + name
}
