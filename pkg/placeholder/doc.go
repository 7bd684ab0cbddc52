// Package placeholder locates version placeholder tokens in documents and
// substitutes them.
//
// # Tokens
//
// A placeholder token names an artifact: "<arachne-core-version>" stands for
// the latest version of "arachne-core". Names consist of letters, digits,
// underscores and hyphens.
//
// # Formats
//
// [FormatHTML] documents are tokenized with golang.org/x/net/html. A text node
// is an occurrence when
//
//   - its innermost element is <code>, or a <span> inside <code>, and its
//     whole text (surrounding whitespace aside) is the token, optionally in
//     double quotes, or
//   - it lies inside an element with class "version-lookup" whose
//     data-artifact attribute names the artifact, and it contains the token.
//
// [FormatText] documents (Markdown, AsciiDoc, plain text) treat every token
// as an occurrence, in its literal or HTML-escaped spelling.
//
// # Substitution
//
// Scanning yields [Occurrence] values that record byte offsets into the
// source. Callers pair each with its text in a [Replacement] and hand the
// whole set to [Apply], which rewrites the document in a single pass. The
// order in which replacements were produced does not matter.
package placeholder
