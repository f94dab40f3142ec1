// Package categories persists note categories. The human-readable name and
// color are sealed into encrypted_data; the legacy plaintext columns are
// always written empty.
package categories
