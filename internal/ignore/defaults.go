package ignore

// BuiltInPatterns are excluded in every project unless a rule overrides them.
var BuiltInPatterns = []string{
	// version control
	".git/",
	".svn/",
	".hg/",
	// dependencies
	"node_modules/",
	"bower_components/",
	"vendor/",
	".venv/",
	"venv/",
	"__pycache__/",
	"*.pyc",
	// build output
	"dist/",
	"build/",
	"out/",
	"target/",
	".next/",
	".nuxt/",
	"coverage/",
	"*.min.js",
	"*.map",
	// editors
	".idea/",
	".vscode/",
	"*.swp",
	"*.swo",
	"*~",
	// OS files
	".DS_Store",
	"Thumbs.db",
	"desktop.ini",
	// archives
	"*.zip",
	"*.tar",
	"*.tar.gz",
	"*.tgz",
	"*.rar",
	"*.7z",
}

// SecurityPatterns identify files that typically hold credentials or private data.
// All of them are file patterns: a directory walk never skips a subtree
// because of them.
var SecurityPatterns = []string{
	// environment files
	".env",
	".env.*",
	"*.env",
	// credential files
	"credentials.json",
	"credentials.yml",
	"credentials.yaml",
	"secrets.json",
	"secrets.yml",
	"secrets.yaml",
	".npmrc",
	".pypirc",
	".netrc",
	".htpasswd",
	// keys and certificates
	"*.pem",
	"*.key",
	"*.p12",
	"*.pfx",
	"*.crt",
	"*.cer",
	"*.jks",
	"*.keystore",
	"id_rsa",
	"id_dsa",
	"id_ecdsa",
	"id_ed25519",
	// cloud credentials
	"**/.aws/credentials",
	"**/.aws/config",
	"**/.azure/**",
	"**/.gcloud/**",
	"service-account*.json",
	"**/.docker/config.json",
	"**/.kube/config",
	// local databases
	"*.sqlite",
	"*.sqlite3",
	"*.db",
}

const securityReason = "Security-sensitive file"

// BinaryPatterns are the extensions a NUL-containing file must also match
// before it is treated as binary.
var BinaryPatterns = []string{
	"*.exe", "*.dll", "*.so", "*.dylib", "*.bin", "*.o", "*.a", "*.obj",
	"*.class", "*.jar", "*.war", "*.pyc", "*.wasm",
	"*.png", "*.jpg", "*.jpeg", "*.gif", "*.bmp", "*.ico", "*.webp", "*.tiff",
	"*.pdf", "*.doc", "*.docx", "*.xls", "*.xlsx", "*.ppt", "*.pptx",
	"*.zip", "*.gz", "*.tar", "*.rar", "*.7z", "*.bz2", "*.xz",
	"*.mp3", "*.mp4", "*.avi", "*.mov", "*.wav", "*.flac",
	"*.ttf", "*.otf", "*.woff", "*.woff2", "*.eot",
	"*.sqlite", "*.db",
}

// builtInRules expands a pattern list into rules counting down from base.
func builtInRules(patterns []string, source string, base int, t RuleType, reason string) []Rule {
	rules := make([]Rule, 0, len(patterns))
	for i, p := range patterns {
		rules = append(rules, Rule{
			Pattern:  p,
			Type:     t,
			Reason:   reason,
			Priority: base - i,
			Source:   source,
			Raw:      p,
		})
	}
	return rules
}
