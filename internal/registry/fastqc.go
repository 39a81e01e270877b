package registry

// fastqcEntries is the FastQC module list in report order. Column names and
// chart filenames follow what FastQC writes and what the plotting scripts
// expect.
var fastqcEntries = []Entry{
	{
		Title:  "Basic Statistics",
		Kind:   KindBasicStatistics,
		Flag:   "basic-stats",
		Usage:  "Process the Basic Statistics section",
		Schema: Schema{Columns: []string{"#Measure", "Value"}},
	},
	{
		Title:     "Per base sequence quality",
		Kind:      KindPerBaseSeqQuality,
		Flag:      "per-base-seq-qual",
		Shorthand: "b",
		Usage:     "Process the Per base sequence quality section",
		Schema:    Schema{Columns: []string{"#Base", "Mean"}},
	},
	{
		Title:     "Per tile sequence quality",
		Kind:      KindPerTileSeqQuality,
		Flag:      "per-tile-seq-qual",
		Shorthand: "t",
		Usage:     "Process the Per tile sequence quality section",
		Schema:    Schema{Columns: []string{"#Tile", "Base", "Mean"}},
		Chart:     "per_tile_sequence_quality_heatmap.png",
	},
	{
		Title:     "Per sequence quality scores",
		Kind:      KindPerSeqQualityScores,
		Flag:      "per-seq-qual-scores",
		Shorthand: "s",
		Usage:     "Process the Per sequence quality scores section",
		Schema:    Schema{Columns: []string{"#Quality", "Count"}},
		Chart:     "per_sequence_quality_plot.png",
	},
	{
		Title:     "Per base sequence content",
		Kind:      KindPerBaseSeqContent,
		Flag:      "per-base-seq-content",
		Shorthand: "c",
		Usage:     "Process the Per base sequence content section",
		Schema:    Schema{Columns: []string{"#Base"}},
		Chart:     "per_base_sequence_plot.png",
	},
	{
		Title:     "Per sequence GC content",
		Kind:      KindPerSeqGCContent,
		Flag:      "per-seq-gc-content",
		Shorthand: "g",
		Usage:     "Process the Per sequence GC content section",
		Schema:    Schema{Columns: []string{"#GC Content", "Count"}},
		Chart:     "per_sequence_gc_content_plot.png",
	},
	{
		Title:     "Per base N content",
		Kind:      KindPerBaseNContent,
		Flag:      "per-base-n-content",
		Shorthand: "n",
		Usage:     "Process the Per base N content section",
		Schema:    Schema{Columns: []string{"#Base", "N-Count"}},
		Chart:     "per_base_n_content_plot.png",
	},
	{
		Title:     "Sequence Length Distribution",
		Kind:      KindSeqLengthDistribution,
		Flag:      "seq-len-dist",
		Shorthand: "l",
		Usage:     "Process the Sequence Length Distribution section",
		Schema:    Schema{Columns: []string{"#Length", "Count"}},
	},
	{
		Title:     "Sequence Duplication Levels",
		Kind:      KindSeqDuplicationLevels,
		Flag:      "seq-dup",
		Shorthand: "d",
		Usage:     "Process the Sequence Duplication Levels section",
		// The first line is "#Total Deduplicated Percentage\t...".
		Schema: Schema{
			SkipRows: 1,
			Columns:  []string{"#Duplication Level", "Percentage of deduplicated", "Percentage of total"},
		},
		Chart: "sequence_duplication_level_plot.png",
	},
	{
		Title:     "Overrepresented sequences",
		Kind:      KindOverrepresentedSeqs,
		Flag:      "over-seq",
		Shorthand: "o",
		Usage:     "Process the Overrepresented sequences section",
		Schema:    Schema{Columns: []string{"#Sequence", "Count", "Percentage", "Possible Source"}},
	},
	{
		Title:     "Adapter Content",
		Kind:      KindAdapterContent,
		Flag:      "adapter-content",
		Shorthand: "p",
		Usage:     "Process the Adapter Content section",
		Schema:    Schema{Columns: []string{"#Position"}},
		Chart:     "adapter_content_plot.png",
	},
	{
		Title:     "Kmer Content",
		Kind:      KindKmerContent,
		Flag:      "kmer-content",
		Shorthand: "k",
		Usage:     "Process the K-mer Content section",
		Schema:    Schema{Columns: []string{"#Sequence", "Count"}},
		Chart:     "kmer_content_by_count.png",
	},
}

