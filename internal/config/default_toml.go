package config

// DefaultConfigTOML is the annotated configuration template written by
// `dupescan init`.
const DefaultConfigTOML = `# dupescan configuration file
# All settings are optional; values shown are the defaults.

[input]
# Paths to scan when none are given on the command line.
# paths = ["."]

# Recurse into subdirectories.
# recursive = true

# Glob patterns (doublestar) matched against relative paths and base names.
# include_patterns = ["**/*.txt", "**/*.md"]
# exclude_patterns = []

[sketch]
# Sketch-agreement fraction at or above which two documents count as
# near-duplicates. The banding defaults below are tuned around 0.9.
# similarity_threshold = 0.9

# Tokens per shingle. Smaller values make matching more permissive.
# shingle_tokens = 5

# Sketch length. Must equal bands * rows.
# num_hash_functions = 400
# bands = 20
# rows = 20

# Non-zero seed makes sketches reproducible across runs.
# seed = 0

[output]
# Report format: text, json, yaml, csv
# format = "text"

# Include the effective request in the report.
# show_details = false

# Result ordering: similarity, location
# sort_by = "similarity"
`
