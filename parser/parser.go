// Package parser implements a hand-written recursive-descent parser and
// semantic analyser for EDL files. Parsing is single-pass and
// non-recoverable: the first diagnostic aborts processing of the file
// and no partial IR is returned.
package parser

import (
	"fmt"
	"strconv"

	"github.com/ardanlabs/edlc/diag"
	"github.com/ardanlabs/edlc/ir"
	"github.com/ardanlabs/edlc/lexer"
)

// Parser drives a Lexer with a two-token lookahead window and builds an
// ir.Edl. All parser state is scoped to a single call to Parse.
type Parser struct {
	file string
	lx   *lexer.Lexer

	cur, next lexer.Token

	developerTypes      map[string]ir.DeveloperType
	developerTypesOrder []string

	trustedFunctions      map[string]ir.Function
	trustedFunctionsOrder []ir.Function

	untrustedFunctions      map[string]ir.Function
	untrustedFunctionsOrder []ir.Function

	abiIndex int
}

// New returns a Parser over src, attributing diagnostics to file.
func New(file string, src []byte) *Parser {
	return &Parser{
		file:               file,
		lx:                 lexer.New(file, src),
		developerTypes:     map[string]ir.DeveloperType{},
		trustedFunctions:   map[string]ir.Function{},
		untrustedFunctions: map[string]ir.Function{},
	}
}

// Parse parses the enclave { ... } file, running the semantic analyser
// over the result. On success the returned ir.Edl is fully validated.
func (p *Parser) Parse() (ir.Edl, error) {
	first, err := p.lx.Next()
	if err != nil {
		return ir.Edl{}, err
	}
	second, err := p.lx.Next()
	if err != nil {
		return ir.Edl{}, err
	}
	p.cur, p.next = first, second

	if _, err := p.expect("enclave"); err != nil {
		return ir.Edl{}, err
	}
	if _, err := p.expect("{"); err != nil {
		return ir.Edl{}, err
	}

	edl, err := p.parseBody()
	if err != nil {
		return ir.Edl{}, err
	}
	edl.Name = p.file

	if _, err := p.expect("}"); err != nil {
		return ir.Edl{}, err
	}

	return edl, nil
}

// advance consumes the current token and slides the lookahead window
// forward by pulling one more token from the lexer.
func (p *Parser) advance() (lexer.Token, error) {
	tok := p.cur
	p.cur = p.next
	n, err := p.lx.Next()
	if err != nil {
		return lexer.Token{}, err
	}
	p.next = n
	return tok, nil
}

// expect consumes the current token and raises EdlExpectedTokenNotFound
// if its text doesn't match text.
func (p *Parser) expect(text string) (lexer.Token, error) {
	tok, err := p.advance()
	if err != nil {
		return lexer.Token{}, err
	}
	if !tok.Is(text) {
		return lexer.Token{}, diag.New(diag.ExpectedTokenNotFound, p.file, tok.Line, tok.Column, text, tok.String())
	}
	return tok, nil
}

// expectIdentifier consumes the current token and raises kind if it
// isn't an identifier-shaped token.
func (p *Parser) expectIdentifier(kind diag.Kind) (lexer.Token, error) {
	tok, err := p.advance()
	if err != nil {
		return lexer.Token{}, err
	}
	if !tok.IsIdentifier() {
		return lexer.Token{}, diag.New(kind, p.file, tok.Line, tok.Column, tok.String())
	}
	return tok, nil
}

func (p *Parser) parseBody() (ir.Edl, error) {
	for !p.cur.Is("}") && !p.cur.IsEOF() {
		tok, err := p.advance()
		if err != nil {
			return ir.Edl{}, err
		}

		switch tok.Text {
		case "trusted":
			if err := p.parseFunctions(ir.Trusted); err != nil {
				return ir.Edl{}, err
			}
		case "untrusted":
			if err := p.parseFunctions(ir.Untrusted); err != nil {
				return ir.Edl{}, err
			}
		case "enum":
			if err := p.parseEnum(); err != nil {
				return ir.Edl{}, err
			}
		case "struct":
			if err := p.parseStruct(); err != nil {
				return ir.Edl{}, err
			}
		default:
			return ir.Edl{}, diag.New(diag.UnexpectedToken, p.file, tok.Line, tok.Column, tok.String())
		}
	}

	if err := p.performFinalValidations(); err != nil {
		return ir.Edl{}, err
	}
	p.updateDeveloperTypeMetadata()

	return ir.Edl{
		DeveloperTypes:          p.developerTypes,
		DeveloperTypesOrder:     p.developerTypesOrder,
		TrustedFunctions:        p.trustedFunctions,
		TrustedFunctionsOrder:   p.trustedFunctionsOrder,
		UntrustedFunctions:      p.untrustedFunctions,
		UntrustedFunctionsOrder: p.untrustedFunctionsOrder,
	}, nil
}

func isReservedTypeName(name string) bool {
	_, ok := ir.KeywordTypes[name]
	return ok
}

// parseEnum handles both `enum { ... };` (anonymous, accumulated under
// ir.AnonymousEnumName across the whole file) and `enum Name { ... };`.
func (p *Parser) parseEnum() error {
	tok, err := p.advance()
	if err != nil {
		return err
	}

	isAnonymous := tok.Is("{")
	var typeName string

	if isAnonymous {
		typeName = ir.AnonymousEnumName
		if _, ok := p.developerTypes[typeName]; !ok {
			p.developerTypes[typeName] = ir.DeveloperType{
				Name:  typeName,
				Kind:  ir.AnonymousEnum,
				Items: map[string]ir.EnumItem{},
			}
		}
	} else {
		if !tok.IsIdentifier() {
			return diag.New(diag.EnumNameIdentifierNotFound, p.file, tok.Line, tok.Column, tok.String())
		}
		typeName = tok.Text

		if isReservedTypeName(typeName) {
			return diag.New(diag.TypeNameIdentifierIsReserved, p.file, tok.Line, tok.Column, typeName)
		}
		if _, exists := p.developerTypes[typeName]; exists {
			return diag.New(diag.DuplicateTypeDefinition, p.file, tok.Line, tok.Column, typeName)
		}

		p.developerTypes[typeName] = ir.DeveloperType{
			Name:  typeName,
			Kind:  ir.Enum,
			Items: map[string]ir.EnumItem{},
		}

		if _, err := p.expect("{"); err != nil {
			return err
		}
	}

	var curPos uint64
	wasPreviousHex := false
	isDefault := true

	for !p.cur.Is("}") {
		itemTok, err := p.advance()
		if err != nil {
			return err
		}
		valueName := itemTok.Text

		if !itemTok.IsIdentifier() {
			return diag.New(diag.EnumValueIdentifierNotFound, p.file, itemTok.Line, itemTok.Column, valueName)
		}

		item := ir.EnumItem{
			Name:             valueName,
			DeclaredPosition: curPos,
			IsHex:            wasPreviousHex,
			IsDefaultValue:   isDefault,
		}

		if p.cur.Is("=") {
			if _, err := p.advance(); err != nil {
				return err
			}
			valueTok, err := p.advance()
			if err != nil {
				return err
			}

			switch {
			case valueTok.IsUnsignedInteger():
				v, convErr := strconv.ParseUint(valueTok.Text, 10, 64)
				if convErr != nil {
					return diag.New(diag.EnumValueNotFound, p.file, valueTok.Line, valueTok.Column, valueTok.Text)
				}
				item.DeclaredPosition = v
				curPos = v
				item.IsHex = false
				wasPreviousHex = false
			case valueTok.IsHexInteger():
				v, convErr := strconv.ParseUint(valueTok.Text[2:], 16, 64)
				if convErr != nil {
					return diag.New(diag.EnumValueNotFound, p.file, valueTok.Line, valueTok.Column, valueTok.Text)
				}
				item.DeclaredPosition = v
				curPos = v
				item.IsHex = true
				wasPreviousHex = true
			default:
				return diag.New(diag.EnumValueNotFound, p.file, valueTok.Line, valueTok.Column, valueTok.Text)
			}

			valueTokCopy := valueTok
			item.ExplicitValueToken = &valueTokCopy
		}

		if !p.cur.Is("}") {
			if _, err := p.expect(","); err != nil {
				return err
			}
		}

		dt := p.developerTypes[typeName]
		if _, exists := dt.Items[valueName]; exists {
			return diag.New(diag.EnumNameDuplicated, p.file, itemTok.Line, itemTok.Column, valueName)
		}
		dt.Items[valueName] = item
		dt.ItemOrder = append(dt.ItemOrder, valueName)
		p.developerTypes[typeName] = dt

		curPos++
		isDefault = false
	}

	if _, err := p.expect("}"); err != nil {
		return err
	}
	if _, err := p.expect(";"); err != nil {
		return err
	}

	p.developerTypesOrder = append(p.developerTypesOrder, typeName)
	return nil
}

func (p *Parser) parseStruct() error {
	nameTok, err := p.advance()
	if err != nil {
		return err
	}
	if !nameTok.IsIdentifier() {
		return diag.New(diag.StructIdentifierNotFound, p.file, nameTok.Line, nameTok.Column, nameTok.String())
	}
	name := nameTok.Text

	if isReservedTypeName(name) {
		return diag.New(diag.TypeNameIdentifierIsReserved, p.file, nameTok.Line, nameTok.Column, name)
	}
	if _, exists := p.developerTypes[name]; exists {
		return diag.New(diag.DuplicateTypeDefinition, p.file, nameTok.Line, nameTok.Column, name)
	}

	if _, err := p.expect("{"); err != nil {
		return err
	}

	fields, err := p.parseFieldsOrParams(ir.ParentStruct, name, "}", ";")
	if err != nil {
		return err
	}

	containsPointer, containsContainer := false, false
	for _, f := range fields {
		if f.HasPointer() {
			containsPointer = true
		}
		if f.IsContainer() {
			containsContainer = true
		}
	}

	if _, err := p.expect("}"); err != nil {
		return err
	}
	if _, err := p.expect(";"); err != nil {
		return err
	}

	p.developerTypes[name] = ir.DeveloperType{
		Name:                  name,
		Kind:                  ir.Struct,
		Fields:                fields,
		ContainsInnerPointer:  containsPointer,
		ContainsContainerType: containsContainer,
	}
	p.developerTypesOrder = append(p.developerTypesOrder, name)
	return nil
}

func (p *Parser) parseFunctions(kind ir.FunctionKind) error {
	if _, err := p.expect("{"); err != nil {
		return err
	}

	funcMap := p.trustedFunctions
	if kind == ir.Untrusted {
		funcMap = p.untrustedFunctions
	}

	for !p.cur.Is("}") {
		fn, err := p.parseFunctionDeclaration()
		if err != nil {
			return err
		}

		sig := fn.Signature()
		if _, exists := funcMap[sig]; exists {
			return diag.New(diag.DuplicateFunctionDeclaration, p.file, 0, 0, fn.Name)
		}

		fn.AbiName = fmt.Sprintf("%s_%d", fn.Name, p.abiIndex)
		p.abiIndex++

		funcMap[sig] = fn
		if kind == ir.Untrusted {
			p.untrustedFunctionsOrder = append(p.untrustedFunctionsOrder, fn)
		} else {
			p.trustedFunctionsOrder = append(p.trustedFunctionsOrder, fn)
		}
	}

	if _, err := p.expect("}"); err != nil {
		return err
	}
	if _, err := p.expect(";"); err != nil {
		return err
	}

	return nil
}

func (p *Parser) parseFunctionDeclaration() (ir.Function, error) {
	returnType, err := p.parseDeclarationTypeInfo()
	if err != nil {
		return ir.Function{}, err
	}

	returnInfo := ir.Declaration{
		ParentKind: ir.ParentFunction,
		Name:       ir.ReturnValueName,
		TypeInfo:   returnType,
		AttributeInfo: &ir.ParsedAttributeInfo{
			OutPresent: true,
		},
	}

	nameTok, err := p.advance()
	if err != nil {
		return ir.Function{}, err
	}
	if !nameTok.IsIdentifier() {
		return ir.Function{}, diag.New(diag.FunctionIdentifierNotFound, p.file, nameTok.Line, nameTok.Column, nameTok.String())
	}
	name := nameTok.Text

	if returnType.IsPointer {
		return ir.Function{}, diag.New(diag.ReturnValuesCannotBePointers, p.file, nameTok.Line, nameTok.Column, name)
	}

	if isReservedTypeName(name) {
		return ir.Function{}, diag.New(diag.TypeNameIdentifierIsReserved, p.file, nameTok.Line, nameTok.Column, name)
	}

	if _, err := p.expect("("); err != nil {
		return ir.Function{}, err
	}

	params, err := p.parseFieldsOrParams(ir.ParentFunction, name, ")", ",")
	if err != nil {
		return ir.Function{}, err
	}

	if _, err := p.expect(")"); err != nil {
		return ir.Function{}, err
	}
	if _, err := p.expect(";"); err != nil {
		return ir.Function{}, err
	}

	return ir.Function{
		Name:       name,
		ReturnInfo: returnInfo,
		Parameters: params,
	}, nil
}

// parseFieldsOrParams parses a comma/semicolon separated list of
// declarations up to (but not consuming) endText.
func (p *Parser) parseFieldsOrParams(parentKind ir.DeclarationParentKind, parentName, endText, sepText string) ([]ir.Declaration, error) {
	var list []ir.Declaration
	seenNames := map[string]bool{}

	for !p.cur.Is(endText) {
		decl, err := p.parseDeclaration(parentKind)
		if err != nil {
			return nil, err
		}

		if parentKind == ir.ParentFunction && decl.AttributeInfo == nil {
			// A bare void* is rejected here, before the implicit [in]
			// below would count as an annotation.
			if decl.HasPointer() && decl.TypeInfo.Kind == ir.Void {
				return nil, diag.New(diag.PointerToVoidMustBeAnnotated, p.file, 0, 0)
			}
			decl.AttributeInfo = &ir.ParsedAttributeInfo{InPresent: true}
		}

		if err := p.validatePointers(decl); err != nil {
			return nil, err
		}

		if seenNames[decl.Name] {
			return nil, diag.New(diag.DuplicateFieldOrParameter, p.file, 0, 0, decl.Name, parentName)
		}
		seenNames[decl.Name] = true

		list = append(list, decl)

		if !p.cur.Is(endText) {
			if _, err := p.expect(sepText); err != nil {
				return nil, err
			}
		}
	}

	return list, nil
}

func (p *Parser) parseDeclaration(parentKind ir.DeclarationParentKind) (ir.Declaration, error) {
	attrInfo, err := p.parseAttributes(parentKind)
	if err != nil {
		return ir.Declaration{}, err
	}

	typeInfo, err := p.parseDeclarationTypeInfo()
	if err != nil {
		return ir.Declaration{}, err
	}

	nameTok, err := p.expectIdentifier(diag.IdentifierNameNotFound)
	if err != nil {
		return ir.Declaration{}, err
	}
	name := nameTok.Text

	if isReservedTypeName(name) {
		return ir.Declaration{}, diag.New(diag.TypeNameIdentifierIsReserved, p.file, nameTok.Line, nameTok.Column, name)
	}

	arrayDims, err := p.parseArrayDimensions()
	if err != nil {
		return ir.Declaration{}, err
	}

	decl := ir.Declaration{
		ParentKind:      parentKind,
		Name:            name,
		TypeInfo:        typeInfo,
		ArrayDimensions: arrayDims,
		AttributeInfo:   attrInfo,
	}

	if err := p.validateNonSizeAndCountAttributes(decl); err != nil {
		return ir.Declaration{}, err
	}

	return decl, nil
}

func attributeKind(tok lexer.Token, file string) (string, error) {
	switch tok.Text {
	case "in", "out", "count", "size":
		return tok.Text, nil
	}
	return "", diag.New(diag.InvalidAttribute, file, tok.Line, tok.Column, tok.String())
}

func (p *Parser) parseAttributes(parentKind ir.DeclarationParentKind) (*ir.ParsedAttributeInfo, error) {
	if !p.cur.Is("[") {
		return nil, nil
	}
	if _, err := p.advance(); err != nil {
		return nil, err
	}

	info := &ir.ParsedAttributeInfo{}
	seen := map[string]bool{}

	for !p.cur.Is("]") {
		tok, err := p.advance()
		if err != nil {
			return nil, err
		}

		kind, err := attributeKind(tok, p.file)
		if err != nil {
			return nil, err
		}

		isSizeOrCount := kind == "size" || kind == "count"

		if parentKind == ir.ParentStruct && !isSizeOrCount {
			return nil, diag.New(diag.NonSizeOrCountAttributeInStruct, p.file, tok.Line, tok.Column)
		}

		if seen[kind] {
			return nil, diag.New(diag.DuplicateAttributeFound, p.file, tok.Line, tok.Column)
		}
		seen[kind] = true

		if isSizeOrCount {
			if _, err := p.expect("="); err != nil {
				return nil, err
			}
			valueTok, err := p.advance()
			if err != nil {
				return nil, err
			}
			if !valueTok.IsIdentifier() && !valueTok.IsUnsignedInteger() {
				return nil, diag.New(diag.SizeOrCountValueInvalid, p.file, valueTok.Line, valueTok.Column, valueTok.String())
			}

			valueTokCopy := valueTok
			if kind == "size" {
				info.SizeInfo = &valueTokCopy
			} else {
				info.CountInfo = &valueTokCopy
			}
		} else if kind == "in" {
			info.InPresent = true
		} else if kind == "out" {
			info.OutPresent = true
		}

		info.InAndOutPresent = info.InPresent && info.OutPresent

		if !p.cur.Is("]") {
			if _, err := p.expect(","); err != nil {
				return nil, err
			}
		}
	}

	if _, err := p.expect("]"); err != nil {
		return nil, err
	}

	return info, nil
}

func (p *Parser) parseDeclarationTypeInfo() (ir.EdlTypeInfo, error) {
	typeTok, err := p.expectIdentifier(diag.IdentifierNameNotFound)
	if err != nil {
		return ir.EdlTypeInfo{}, err
	}
	name := typeTok.Text

	info := ir.EdlTypeInfo{Name: name}

	if kind, ok := ir.KeywordTypes[name]; ok {
		if kind == ir.Vector {
			vecInfo, err := p.parseVector()
			if err != nil {
				return ir.EdlTypeInfo{}, err
			}
			info = vecInfo
		} else {
			info.Kind = kind
		}
	} else if dt, ok := p.developerTypes[name]; ok {
		info.Kind = dt.Kind
	} else {
		return ir.EdlTypeInfo{}, diag.New(diag.DeveloperTypesMustBeDefinedBeforeUse, p.file, typeTok.Line, typeTok.Column, name)
	}

	if p.cur.Is("*") {
		ptrTok, err := p.advance()
		if err != nil {
			return ir.EdlTypeInfo{}, err
		}
		info.IsPointer = true

		if p.cur.Is("*") {
			return ir.EdlTypeInfo{}, diag.New(diag.PointerToPointerInvalid, p.file, ptrTok.Line, ptrTok.Column)
		}
	}

	return info, nil
}

func (p *Parser) parseVector() (ir.EdlTypeInfo, error) {
	vecInfo := ir.EdlTypeInfo{Name: "vector", Kind: ir.Vector}

	if !p.cur.Is("<") {
		return ir.EdlTypeInfo{}, diag.New(diag.VectorDoesNotStartWithArrowBracket, p.file, p.cur.Line, p.cur.Column)
	}

	for p.cur.Is("<") {
		if _, err := p.advance(); err != nil {
			return ir.EdlTypeInfo{}, err
		}

		innerTok, err := p.expectIdentifier(diag.VectorNameIdentifierNotFound)
		if err != nil {
			return ir.EdlTypeInfo{}, err
		}
		innerName := innerTok.Text

		if kind, ok := ir.KeywordTypes[innerName]; ok {
			if kind == ir.Vector {
				return ir.EdlTypeInfo{}, diag.New(diag.OnlySingleDimensionsSupported, p.file, innerTok.Line, innerTok.Column)
			}
			vecInfo.InnerType = &ir.EdlTypeInfo{Name: innerName, Kind: kind}
		} else if dt, ok := p.developerTypes[innerName]; ok {
			vecInfo.InnerType = &ir.EdlTypeInfo{Name: dt.Name, Kind: dt.Kind}
		} else {
			return ir.EdlTypeInfo{}, diag.New(diag.TypeInVectorMustBePreviouslyDefined, p.file, innerTok.Line, innerTok.Column, innerName)
		}

		if _, err := p.expect(">"); err != nil {
			return ir.EdlTypeInfo{}, err
		}
	}

	return vecInfo, nil
}

func (p *Parser) parseArrayDimensions() ([]string, error) {
	var dims []string

	if !p.cur.Is("[") {
		return dims, nil
	}

	found := 0
	for p.cur.Is("[") {
		if found >= 1 {
			return nil, diag.New(diag.OnlySingleDimensionsSupported, p.file, p.cur.Line, p.cur.Column)
		}

		if _, err := p.advance(); err != nil {
			return nil, err
		}

		valueTok, err := p.advance()
		if err != nil {
			return nil, err
		}
		name := valueTok.Text

		isInt := valueTok.IsUnsignedInteger()
		validIdentifier := false
		if valueTok.IsIdentifier() {
			if anon, ok := p.developerTypes[ir.AnonymousEnumName]; ok {
				_, validIdentifier = anon.Items[name]
			}
		}

		if !isInt && !validIdentifier {
			return nil, diag.New(diag.ArrayDimensionIdentifierInvalid, p.file, valueTok.Line, valueTok.Column, valueTok.String())
		}

		dims = append(dims, name)
		found++

		if _, err := p.expect("]"); err != nil {
			return nil, err
		}
	}

	return dims, nil
}

// validatePointers enforces spec.md's per-declaration pointer rules:
// void* must carry attributes, and function parameters that are
// pointers with [in]/[out] can't also be arrays or vectors. Pointer
// depth (no pointer-to-pointer) is enforced eagerly in
// parseDeclarationTypeInfo.
func (p *Parser) validatePointers(decl ir.Declaration) error {
	if !decl.HasPointer() {
		return nil
	}

	if decl.TypeInfo.Kind == ir.Void {
		info := decl.AttributeInfo
		if info == nil || (!info.InPresent && !info.OutPresent && info.SizeInfo == nil && info.CountInfo == nil) {
			return diag.New(diag.PointerToVoidMustBeAnnotated, p.file, 0, 0)
		}
	}

	if decl.AttributeInfo == nil {
		return nil
	}

	inOrOutPresent := decl.AttributeInfo.InPresent || decl.AttributeInfo.OutPresent

	if decl.ParentKind == ir.ParentFunction {
		if inOrOutPresent && decl.IsArray() {
			return diag.New(diag.PointerToArrayNotAllowed, p.file, 0, 0)
		}
		if inOrOutPresent && decl.IsContainer() {
			return diag.New(diag.PointerToArrayNotAllowed, p.file, 0, 0)
		}
	}

	return nil
}

func (p *Parser) validateNonSizeAndCountAttributes(decl ir.Declaration) error {
	if decl.AttributeInfo == nil {
		return nil
	}

	info := decl.AttributeInfo
	if (info.SizeInfo != nil || info.CountInfo != nil) && !decl.HasPointer() {
		return diag.New(diag.SizeAndCountNotValidForNonPointer, p.file, 0, 0, decl.TypeInfo.Name)
	}

	return nil
}

func sizeOrCountTokens(decl ir.Declaration) []lexer.Token {
	var toks []lexer.Token
	if decl.AttributeInfo == nil {
		return toks
	}
	if decl.AttributeInfo.SizeInfo != nil {
		toks = append(toks, *decl.AttributeInfo.SizeInfo)
	}
	if decl.AttributeInfo.CountInfo != nil {
		toks = append(toks, *decl.AttributeInfo.CountInfo)
	}
	return toks
}

func findDeclaration(decls []ir.Declaration, name string) (ir.Declaration, bool) {
	for _, d := range decls {
		if d.Name == name {
			return d, true
		}
	}
	return ir.Declaration{}, false
}

// performFinalValidations runs after every top-level declaration has
// been parsed, so size/count attributes can refer to sibling
// declarations regardless of source order within the same list.
func (p *Parser) performFinalValidations() error {
	for _, fn := range p.trustedFunctionsOrder {
		if err := p.validateSizeAndCount(fn.Name, fn.Parameters); err != nil {
			return err
		}
	}
	for _, fn := range p.untrustedFunctionsOrder {
		if err := p.validateSizeAndCount(fn.Name, fn.Parameters); err != nil {
			return err
		}
	}
	for _, name := range p.developerTypesOrder {
		dt := p.developerTypes[name]
		if err := p.validateSizeAndCount(name, dt.Fields); err != nil {
			return err
		}
	}
	return nil
}

func (p *Parser) validateSizeAndCount(parentName string, decls []ir.Declaration) error {
	for _, decl := range decls {
		for _, tok := range sizeOrCountTokens(decl) {
			if !tok.IsIdentifier() {
				continue
			}

			if anon, ok := p.developerTypes[ir.AnonymousEnumName]; ok {
				if _, exists := anon.Items[tok.Text]; exists {
					continue
				}
			}

			found, ok := findDeclaration(decls, tok.Text)
			if !ok {
				return diag.New(diag.SizeOrCountAttributeNotFound, p.file, tok.Line, tok.Column, tok.Text, parentName)
			}

			if found.IsArray() {
				return diag.New(diag.SizeOrCountForArrayNotValid, p.file, tok.Line, tok.Column, parentName)
			}

			switch found.TypeInfo.Kind {
			case ir.UInt8, ir.UInt16, ir.UInt32, ir.UInt64, ir.SizeT:
				continue
			default:
				return diag.New(diag.SizeOrCountInvalidType, p.file, tok.Line, tok.Column, found.TypeInfo.Kind.String(), parentName)
			}
		}
	}
	return nil
}

// updateDeveloperTypeMetadata propagates ContainsInnerPointer and
// ContainsContainerType through struct-valued fields. A single scan in
// declaration order suffices because forward references are illegal:
// by the time a struct S is visited, every struct type S can reference
// has already been fully updated.
func (p *Parser) updateDeveloperTypeMetadata() {
	for _, name := range p.developerTypesOrder {
		dt, ok := p.developerTypes[name]
		if !ok || dt.Kind != ir.Struct {
			continue
		}

		for _, field := range dt.Fields {
			if field.HasPointer() {
				dt.ContainsInnerPointer = true
			}
			if field.IsContainer() {
				dt.ContainsContainerType = true
			}
			if field.TypeInfo.Kind != ir.Struct {
				continue
			}

			fieldType := p.developerTypes[field.TypeInfo.Name]
			if fieldType.ContainsInnerPointer {
				dt.ContainsInnerPointer = true
			}
			if fieldType.ContainsContainerType {
				dt.ContainsContainerType = true
			}
		}

		p.developerTypes[name] = dt
	}
}
