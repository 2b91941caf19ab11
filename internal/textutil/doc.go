// Package textutil derives safe filesystem names from manifest text.
// Output names keep their casing and spacing with only hostile characters
// stripped, while project titles collapse to lowercase tokens that
// preserve CJK characters.
package textutil
