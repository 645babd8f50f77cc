// Package utf8check validates UTF-8 style byte streams.
//
// The ruleset is structural only: every sequence must open with a leading
// byte (0xxxxxxx, 110xxxxx, 1110xxxx, 11110xxx) followed by the number of
// 10xxxxxx continuation bytes the leading byte declares. Overlong forms,
// surrogates and code points above U+10FFFF are not rejected.
//
// Inputs are integers of which only the low 8 bits are significant.
package utf8check
