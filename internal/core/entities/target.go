package entities

// TargetBlock is one emitted block in the target format's per-sprite block
// map, following the same field shapes as the reference tool's
// project.json ("opcode"/"next"/"parent"/"inputs"/"fields"/"shadow"/
// "topLevel"/"x"/"y"/"mutation").
type TargetBlock struct {
	Opcode    string                 `json:"opcode"`
	Next      *string                `json:"next"`
	Parent    *string                `json:"parent"`
	Inputs    map[string][]any       `json:"inputs"`
	Fields    map[string][]any       `json:"fields"`
	Shadow    bool                   `json:"shadow"`
	TopLevel  bool                   `json:"topLevel"`
	X         int                    `json:"x,omitempty"`
	Y         int                    `json:"y,omitempty"`
	Mutation  *BlockMutation         `json:"mutation,omitempty"`
}

// BlockMutation is the procedures_call/procedures_prototype mutation
// payload. Argumentids/Names/Defaults are pre-serialized JSON-ish strings
// using single-quote-to-double-quote replacement, matching the reference
// tool's str(list).replace("'", '"') trick for embedding a JSON array
// literal inside a JSON string value.
type BlockMutation struct {
	TagName      string `json:"tagName"`
	Children     []any  `json:"children"`
	Proccode     string `json:"proccode"`
	Argumentids  string `json:"argumentids"`
	Argumentnames string `json:"argumentnames,omitempty"`
	Argumentdefaults string `json:"argumentdefaults,omitempty"`
	Warp         string `json:"warp"`
}

// VariableEntry is a variable's name and value. A Target's maps do not hold
// this type: variables and lists are [name, value] arrays and broadcasts are
// plain names, each keyed by id.
type VariableEntry struct {
	Name  string
	Value any
}

// TargetMonitor mirrors the project.json "monitors" array entry shape.
type TargetMonitor struct {
	ID           string `json:"id"`
	Mode         string `json:"mode"`
	Opcode       string `json:"opcode"`
	Params       map[string]string `json:"params"`
	SpriteName   *string `json:"spriteName"`
	Value        any     `json:"value"`
	X            int     `json:"x"`
	Y            int     `json:"y"`
	Visible      bool    `json:"visible"`
	SliderMin    int     `json:"sliderMin"`
	SliderMax    int     `json:"sliderMax"`
	IsDiscrete   bool    `json:"isDiscrete"`
}

// TargetComment mirrors a project.json comment record anchored to a block.
type TargetComment struct {
	BlockID   *string `json:"blockId"`
	X         int     `json:"x"`
	Y         int     `json:"y"`
	Width     int     `json:"width"`
	Height    int     `json:"height"`
	Minimized bool    `json:"minimized"`
	Text      string  `json:"text"`
}

// Asset describes one costume or sound referenced by a sprite, resolved
// through the AssetProbe port during packaging.
type Asset struct {
	AssetID    string `json:"assetId"`
	Name       string `json:"name"`
	MD5Ext     string `json:"md5ext"`
	DataFormat string `json:"dataFormat"`
	// Costume-only fields; zero-valued for sounds.
	RotationCenterX int `json:"rotationCenterX,omitempty"`
	RotationCenterY int `json:"rotationCenterY,omitempty"`
	// Raw asset bytes, populated by the AssetProbe, not serialized to project.json.
	Bytes []byte `json:"-"`
}

// Target is one sprite (or the Stage) in the emitted project.
type Target struct {
	IsStage         bool                      `json:"isStage"`
	Name            string                    `json:"name"`
	Variables       map[string][2]any         `json:"variables"`
	Lists           map[string][2]any         `json:"lists"`
	Broadcasts      map[string]string         `json:"broadcasts"`
	Blocks          map[string]*TargetBlock   `json:"blocks"`
	Comments        map[string]*TargetComment `json:"comments"`
	Costumes        []Asset                   `json:"costumes"`
	Sounds          []Asset                   `json:"sounds"`
	CurrentCostume  int                       `json:"currentCostume"`
	VolumeLevel     float64                   `json:"volume"`
	LayerOrder      int                       `json:"layerOrder"`
	Visible         bool                      `json:"visible,omitempty"`
	X               float64                   `json:"x,omitempty"`
	Y               float64                   `json:"y,omitempty"`
	Size            float64                   `json:"size,omitempty"`
	Direction       float64                   `json:"direction,omitempty"`
	Draggable       bool                      `json:"draggable,omitempty"`
	RotationStyle   string                    `json:"rotationStyle,omitempty"`
}

// NewTarget returns an empty, ready-to-populate Target for one sprite (or
// the Stage, when isStage is true).
func NewTarget(name string, isStage bool) *Target {
	return &Target{
		IsStage:        isStage,
		Name:           name,
		Variables:      map[string][2]any{},
		Lists:          map[string][2]any{},
		Broadcasts:     map[string]string{},
		Blocks:         map[string]*TargetBlock{},
		Comments:       map[string]*TargetComment{},
		CurrentCostume: 0,
		VolumeLevel:    100,
		Visible:        true,
		Size:           100,
		RotationStyle:  "all around",
	}
}

// Meta is the project.json "meta" block.
type Meta struct {
	Semver string `json:"semver"`
	VM     string `json:"vm"`
	Agent  string `json:"agent"`
}

// Project is the root of project.json.
type Project struct {
	Targets  []*Target        `json:"targets"`
	Monitors []*TargetMonitor `json:"monitors"`
	Meta     Meta             `json:"meta"`
}

// SpriteInput is one sprite's compilation unit: its Katnip source text plus
// the asset names it references, resolved to bytes through AssetProbe at
// packaging time. This is the in-memory shape the core Compiler entry point
// accepts, independent of whichever on-disk project layout a CLI adapter
// reads it from.
type SpriteInput struct {
	Name     string
	Source   string
	Costumes []string
	Sounds   []string
}
