// Package elderberry is the contract state commitment and validation
// layer of a client-side-validated smart-contract protocol.
//
// Contract state exists in two parallel forms: revealed (plaintext)
// and concealed (commitment only). The subpackages convert
// deterministically between them and validate the state carried by a
// contract operation against the schema declared for each slot:
//
//   - [github.com/blockberries/elderberry/types]: identifiers, media types, text encoding
//   - [github.com/blockberries/elderberry/contract]: revealed and concealed state, assignments, operations
//   - [github.com/blockberries/elderberry/pedersen]: homomorphic commitments over secp256k1
//   - [github.com/blockberries/elderberry/vm]: bytecode program container and entry points
//   - [github.com/blockberries/elderberry/validation]: the schema-driven validation engine
//
// This root package only carries the misuse signal shared by all of
// them: operations that are structurally unsupported panic with a
// [*MisuseError] instead of returning an error.
package elderberry

// LibName prefixes every misuse message and commitment tag.
const LibName = "github.com/blockberries/elderberry"
