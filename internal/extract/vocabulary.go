package extract

// VocabularyVersion identifies the built-in keyword tables. Results produced
// with the same version and the same input are identical.
const VocabularyVersion = "2024.11"

// Term is a canonical name with the surface forms that map to it.
type Term struct {
	Name    string   `toml:"name"`
	Aliases []string `toml:"aliases"`
}

// Tiers groups keywords by the tier they vote for.
type Tiers struct {
	High   []string `toml:"high"`
	Medium []string `toml:"medium"`
	Low    []string `toml:"low"`
}

// Vocabulary holds every closed keyword table the rules are built from.
// It is read-only once an engine has been constructed from it.
type Vocabulary struct {
	Version string `toml:"version"`

	// Formats are canonical (upper case) file formats matched case-insensitively.
	Formats []string `toml:"formats"`
	// CaseSensitiveFormats only match when written exactly, e.g. "AI".
	CaseSensitiveFormats []string `toml:"case_sensitive_formats"`

	Colors   []string `toml:"colors"`
	Fonts    []string `toml:"fonts"`
	Tones    []string `toml:"tones"`
	ToneCues []string `toml:"tone_cues"`

	KPIs             []Term `toml:"kpis"`
	DeadlineTypes    []Term `toml:"deadline_types"`
	CreativeElements []Term `toml:"creative_elements"`

	ActionKeywords  []string `toml:"action_keywords"`
	WarningKeywords []string `toml:"warning_keywords"`
	Negations       []string `toml:"negations"`

	Priority Tiers `toml:"priority"`
	Severity Tiers `toml:"severity"`
}

// DefaultVocabulary returns a fresh copy of the built-in tables.
func DefaultVocabulary() *Vocabulary {
	return &Vocabulary{
		Version: VocabularyVersion,
		Formats: []string{
			"JPEG", "JPG", "PNG", "GIF", "WEBP", "SVG", "TIFF", "TIF", "BMP", "PSD", "EPS", "INDD",
			"PDF", "HTML5", "HTML", "ZIP", "MP4", "MOV", "AVI", "WEBM", "MP3", "WAV",
		},
		CaseSensitiveFormats: []string{"AI"},
		Colors: []string{
			"red", "blue", "green", "yellow", "orange", "purple", "pink", "black", "white", "gray", "grey",
			"brown", "navy", "navy blue", "royal blue", "sky blue", "light blue", "dark blue", "teal",
			"turquoise", "cyan", "magenta", "gold", "silver", "beige", "cream", "ivory", "maroon",
			"burgundy", "crimson", "coral", "peach", "lavender", "violet", "indigo", "olive", "lime",
			"mint", "emerald", "forest green", "dark green", "light green", "charcoal",
		},
		Fonts: []string{
			"Arial", "Helvetica", "Helvetica Neue", "Times New Roman", "Georgia", "Verdana", "Tahoma",
			"Trebuchet MS", "Courier New", "Calibri", "Segoe UI", "Roboto", "Open Sans", "Lato",
			"Montserrat", "Poppins", "Raleway", "Nunito", "Oswald", "Merriweather", "Playfair Display",
			"Source Sans Pro", "Proxima Nova", "Futura", "Garamond", "Gotham", "Avenir", "Gill Sans",
			"Frutiger", "Univers",
		},
		Tones: []string{
			"professional", "friendly", "playful", "bold", "confident", "warm", "casual", "formal",
			"energetic", "authoritative", "approachable", "fun", "sophisticated", "modern", "premium",
			"luxurious", "inclusive", "optimistic", "trustworthy", "youthful", "conversational",
			"informative", "inspirational", "empathetic", "minimalist", "elegant", "vibrant", "witty",
			"upbeat", "authentic",
		},
		ToneCues: []string{
			"tone", "voice", "style", "brand", "feel", "personality", "look", "mood", "attitude", "manner",
		},
		KPIs: []Term{
			{Name: "CTR", Aliases: []string{"ctr", "click-through rate", "click through rate", "clickthrough rate"}},
			{Name: "CPC", Aliases: []string{"cpc", "cost per click", "cost-per-click"}},
			{Name: "CPM", Aliases: []string{"cpm", "cost per mille", "cost per thousand impressions", "cost per thousand", "cost-per-mille"}},
			{Name: "CPA", Aliases: []string{"cpa", "cost per acquisition", "cost per action", "cost-per-acquisition"}},
			{Name: "ROAS", Aliases: []string{"roas", "return on ad spend", "return on advertising spend"}},
			{Name: "ROI", Aliases: []string{"roi", "return on investment"}},
			{Name: "Conversion Rate", Aliases: []string{"conversion rate", "cvr"}},
			{Name: "Engagement Rate", Aliases: []string{"engagement rate"}},
			{Name: "VTR", Aliases: []string{"vtr", "view-through rate", "view through rate", "video completion rate"}},
			{Name: "Impressions", Aliases: []string{"impressions"}},
			{Name: "Clicks", Aliases: []string{"clicks"}},
			{Name: "Reach", Aliases: []string{"reach"}},
			{Name: "Viewability", Aliases: []string{"viewability"}},
		},
		DeadlineTypes: []Term{
			{Name: "submission", Aliases: []string{"submit", "submitted", "submission", "due", "deadline", "deliver", "delivered", "delivery", "upload", "send", "assets due", "hand over"}},
			{Name: "launch", Aliases: []string{"launch", "launches", "go live", "go-live", "goes live", "live", "start", "starts", "begins", "kick off", "kickoff", "in market", "on air"}},
			{Name: "review", Aliases: []string{"review", "reviewed", "approval", "approve", "approved", "feedback", "sign-off", "sign off", "proof", "proofs"}},
			{Name: "final", Aliases: []string{"final", "end", "ends", "close", "closes", "closing", "cutoff", "cut-off", "wrap", "expires", "expiry"}},
		},
		CreativeElements: []Term{
			{Name: "brand logo", Aliases: []string{"logo", "logos", "brand mark"}},
			{Name: "product packshot", Aliases: []string{"packshot", "packshots", "pack shot", "pack shots"}},
			{Name: "product image", Aliases: []string{"product image", "product images", "product shot", "product photo"}},
			{Name: "call to action", Aliases: []string{"cta", "call to action", "call-to-action"}},
			{Name: "headline", Aliases: []string{"headline", "headlines"}},
			{Name: "tagline", Aliases: []string{"tagline", "strapline"}},
			{Name: "legal line", Aliases: []string{"legal line", "legal copy", "legal text", "disclaimer"}},
			{Name: "price point", Aliases: []string{"price point", "pricing", "price callout"}},
			{Name: "hashtag", Aliases: []string{"hashtag", "hashtags"}},
			{Name: "QR code", Aliases: []string{"qr code", "qr codes"}},
			{Name: "retailer logo", Aliases: []string{"retailer logo", "retailer branding"}},
			{Name: "safe zones", Aliases: []string{"safe zone", "safe area", "safe areas"}},
		},
		ActionKeywords: []string{
			"must", "must not", "should", "should not", "need to", "needs to", "have to", "has to",
			"shall", "required", "require", "requires", "mandatory", "ensure", "make sure", "include",
			"submit", "provide", "deliver", "upload", "send", "create", "prepare", "complete", "confirm",
			"follow", "please", "do not", "don't", "avoid", "recommended", "optional", "consider",
		},
		WarningKeywords: []string{
			"prohibited", "not allowed", "not permitted", "forbidden", "banned", "illegal", "compliance",
			"comply", "legal", "regulatory", "regulation", "violation", "penalty", "penalties",
			"restriction", "restricted", "risk", "warning", "caution", "disclaimer", "trademark",
			"copyright", "liability", "must not", "do not", "don't", "never",
		},
		Negations: []string{
			"no", "not", "never", "without", "avoid", "exclude", "do not", "don't", "must not", "should not",
		},
		Priority: Tiers{
			High: []string{
				"must", "must not", "required", "require", "requires", "mandatory", "shall", "need to",
				"needs to", "have to", "has to", "essential", "critical", "do not", "don't", "never",
			},
			Medium: []string{
				"should", "should not", "recommend", "recommended", "recommends", "ideally", "preferred",
				"encouraged", "important",
			},
			Low: []string{
				"could", "optional", "optionally", "consider", "suggested", "nice to have", "if possible",
			},
		},
		Severity: Tiers{
			High: []string{
				"prohibited", "not allowed", "not permitted", "forbidden", "banned", "illegal", "violation",
				"penalty", "penalties", "legal", "liability", "must not", "never",
			},
			Medium: []string{
				"compliance", "comply", "regulatory", "regulation", "restriction", "restricted", "risk",
				"warning", "trademark", "copyright", "do not", "don't",
			},
			Low: []string{
				"caution", "disclaimer", "avoid", "note", "limit",
			},
		},
	}
}
