// Package sig provides Dilithium2 signatures on top of an oqssafe.Library.
//
// Under the liboqs backend the scheme resolves to ML-DSA-44 when available,
// falling back to Dilithium2. Signatures may be shorter than the declared
// maximum. Under the mock backend Verify accepts any signature whose length
// equals the maximum, regardless of key or message.
package sig
