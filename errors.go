package ldexpand

import (
	"github.com/cockroachdb/errors"
)

// ErrorCode is a JSON-LD processing error code.
//
// The value is the error code string used by the JSON-LD 1.1 API, which makes
// it suitable for comparing against test manifests or reporting to peers.
type ErrorCode string

// Errors returned by the processor. Each error's message is its JSON-LD error
// code. Use [errors.Is] or [Code] to check for a specific failure.
var (
	ErrCollidingKeywords           = errors.New("colliding keywords")
	ErrContextOverflow             = errors.New("context overflow")
	ErrCyclicIRIMapping            = errors.New("cyclic IRI mapping")
	ErrInvalidBaseDirection        = errors.New("invalid base direction")
	ErrInvalidBaseIRI              = errors.New("invalid base IRI")
	ErrInvalidContainerMapping     = errors.New("invalid container mapping")
	ErrInvalidContextEntry         = errors.New("invalid context entry")
	ErrInvalidContextNullification = errors.New("invalid context nullification")
	ErrInvalidDefaultLanguage      = errors.New("invalid default language")
	ErrInvalidIDValue              = errors.New("invalid @id value")
	ErrInvalidImportValue          = errors.New("invalid @import value")
	ErrInvalidIncludedValue        = errors.New("invalid @included value")
	ErrInvalidIndexValue           = errors.New("invalid @index value")
	ErrInvalidIRIMapping           = errors.New("invalid IRI mapping")
	ErrInvalidKeywordAlias         = errors.New("invalid keyword alias")
	ErrInvalidLanguageMapping      = errors.New("invalid language mapping")
	ErrInvalidLanguageMapValue     = errors.New("invalid language map value")
	ErrInvalidLanguageTaggedString = errors.New("invalid language-tagged string")
	ErrInvalidLanguageTaggedValue  = errors.New("invalid language-tagged value")
	ErrInvalidLocalContext         = errors.New("invalid local context")
	ErrInvalidNestValue            = errors.New("invalid @nest value")
	ErrInvalidPrefixValue          = errors.New("invalid @prefix value")
	ErrInvalidPropagateValue       = errors.New("invalid @propagate value")
	ErrInvalidProtectedValue       = errors.New("invalid @protected value")
	ErrInvalidRemoteContext        = errors.New("invalid remote context")
	ErrInvalidReverseProperty      = errors.New("invalid reverse property")
	ErrInvalidReversePropertyMap   = errors.New("invalid reverse property map")
	ErrInvalidReversePropertyValue = errors.New("invalid reverse property value")
	ErrInvalidReverseValue         = errors.New("invalid @reverse value")
	ErrInvalidScopedContext        = errors.New("invalid scoped context")
	ErrInvalidSetOrListObject      = errors.New("invalid set or list object")
	ErrInvalidTermDefinition       = errors.New("invalid term definition")
	ErrInvalidTypeMapping          = errors.New("invalid type mapping")
	ErrInvalidTypeValue            = errors.New("invalid type value")
	ErrInvalidTypedValue           = errors.New("invalid typed value")
	ErrInvalidValueObject          = errors.New("invalid value object")
	ErrInvalidValueObjectValue     = errors.New("invalid value object value")
	ErrInvalidVersionValue         = errors.New("invalid @version value")
	ErrInvalidVocabMapping         = errors.New("invalid vocab mapping")
	ErrKeywordRedefinition         = errors.New("keyword redefinition")
	ErrLoadingDocument             = errors.New("loading document failed")
	ErrLoadingRemoteContext        = errors.New("loading remote context failed")
	ErrProcessingMode              = errors.New("processing mode conflict")
	ErrProtectedTermRedefinition   = errors.New("protected term redefinition")
	ErrRecursiveContextInclusion   = errors.New("recursive context inclusion")

	// ErrInvalid is returned when the hook installed with
	// [WithValidateContext] rejects a context.
	ErrInvalid = errors.New("invalid context")
)

// codes is ordered so that more specific failures are reported before the
// generic loading failures they may be marked with.
var codes = []error{
	ErrInvalidScopedContext,
	ErrContextOverflow,
	ErrRecursiveContextInclusion,
	ErrInvalidRemoteContext,
	ErrLoadingRemoteContext,
	ErrLoadingDocument,
	ErrCollidingKeywords,
	ErrCyclicIRIMapping,
	ErrInvalidBaseDirection,
	ErrInvalidBaseIRI,
	ErrInvalidContainerMapping,
	ErrInvalidContextEntry,
	ErrInvalidContextNullification,
	ErrInvalidDefaultLanguage,
	ErrInvalidIDValue,
	ErrInvalidImportValue,
	ErrInvalidIncludedValue,
	ErrInvalidIndexValue,
	ErrInvalidIRIMapping,
	ErrInvalidKeywordAlias,
	ErrInvalidLanguageMapping,
	ErrInvalidLanguageMapValue,
	ErrInvalidLanguageTaggedString,
	ErrInvalidLanguageTaggedValue,
	ErrInvalidLocalContext,
	ErrInvalidNestValue,
	ErrInvalidPrefixValue,
	ErrInvalidPropagateValue,
	ErrInvalidProtectedValue,
	ErrInvalidReverseProperty,
	ErrInvalidReversePropertyMap,
	ErrInvalidReversePropertyValue,
	ErrInvalidReverseValue,
	ErrInvalidSetOrListObject,
	ErrInvalidTermDefinition,
	ErrInvalidTypeMapping,
	ErrInvalidTypeValue,
	ErrInvalidTypedValue,
	ErrInvalidValueObject,
	ErrInvalidValueObjectValue,
	ErrInvalidVersionValue,
	ErrInvalidVocabMapping,
	ErrKeywordRedefinition,
	ErrProcessingMode,
	ErrProtectedTermRedefinition,
	ErrInvalid,
}

// Code returns the JSON-LD error code for err, or the empty string if err did
// not originate from processing.
func Code(err error) ErrorCode {
	if err == nil {
		return ""
	}

	for _, c := range codes {
		if errors.Is(err, c) {
			return ErrorCode(c.Error())
		}
	}

	return ""
}

// markLoading attributes a loader failure to code, unless the loader already
// returned one of our errors.
func markLoading(err error, iri string, code error) error {
	if Code(err) != "" {
		return err
	}
	return errors.Mark(errors.Wrapf(err, "%s %s", code, iri), code)
}

// scopedContextError reports err as an invalid scoped context, keeping err
// around for detailed formatting.
func scopedContextError(err error) error {
	if errors.Is(err, ErrContextOverflow) {
		return err
	}
	return errors.WithSecondaryError(ErrInvalidScopedContext, err)
}
