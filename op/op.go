// Package op defines the opcodes emitted by the Grace compiler and
// interpreted by the Grace virtual machine.
package op

// Code is a single VM instruction.
type Code uint8

const (
	Invalid Code = iota

	// Arithmetic/logic (pop 2, push 1)
	Add
	Subtract
	Multiply
	Divide
	Mod
	Pow
	And
	Or
	Equal
	NotEqual
	Greater
	GreaterEqual
	Less
	LessEqual

	// Unary (pop 1, push 1)
	Negate
	Not

	// Stack/locals
	LoadConstant
	LoadLocal
	Pop
	PopLocal
	DeclareLocal
	AssignLocal
	Dup

	// Control
	Jump
	JumpIfFalse
	Return
	Exit

	// Calls
	Call
	NativeCall

	// Casts/types
	CastAsInt
	CastAsFloat
	CastAsBool
	CastAsString
	CastAsChar
	CastAsList
	CheckType

	// I/O
	Print
	PrintLn
	PrintEmptyLine
	PrintTab

	// Containers
	CreateList
	CreateEmptyList
	CreateRepeatingList

	// Assertions
	Assert
	AssertWithMessage
)

var names = map[Code]string{
	Invalid:             "INVALID",
	Add:                 "ADD",
	Subtract:            "SUBTRACT",
	Multiply:            "MULTIPLY",
	Divide:              "DIVIDE",
	Mod:                 "MOD",
	Pow:                 "POW",
	And:                 "AND",
	Or:                  "OR",
	Equal:               "EQUAL",
	NotEqual:            "NOT_EQUAL",
	Greater:             "GREATER",
	GreaterEqual:        "GREATER_EQUAL",
	Less:                "LESS",
	LessEqual:           "LESS_EQUAL",
	Negate:              "NEGATE",
	Not:                 "NOT",
	LoadConstant:        "LOAD_CONSTANT",
	LoadLocal:           "LOAD_LOCAL",
	Pop:                 "POP",
	PopLocal:            "POP_LOCAL",
	DeclareLocal:        "DECLARE_LOCAL",
	AssignLocal:         "ASSIGN_LOCAL",
	Dup:                 "DUP",
	Jump:                "JUMP",
	JumpIfFalse:         "JUMP_IF_FALSE",
	Return:              "RETURN",
	Exit:                "EXIT",
	Call:                "CALL",
	NativeCall:          "NATIVE_CALL",
	CastAsInt:           "CAST_AS_INT",
	CastAsFloat:         "CAST_AS_FLOAT",
	CastAsBool:          "CAST_AS_BOOL",
	CastAsString:        "CAST_AS_STRING",
	CastAsChar:          "CAST_AS_CHAR",
	CastAsList:          "CAST_AS_LIST",
	CheckType:           "CHECK_TYPE",
	Print:               "PRINT",
	PrintLn:             "PRINTLN",
	PrintEmptyLine:      "PRINT_EMPTY_LINE",
	PrintTab:            "PRINT_TAB",
	CreateList:          "CREATE_LIST",
	CreateEmptyList:     "CREATE_EMPTY_LIST",
	CreateRepeatingList: "CREATE_REPEATING_LIST",
	Assert:              "ASSERT",
	AssertWithMessage:   "ASSERT_WITH_MESSAGE",
}

// String returns the disassembly mnemonic for op.
func (c Code) String() string {
	if name, ok := names[c]; ok {
		return name
	}
	return "UNKNOWN"
}

// OperandCounts gives the number of constants each opcode consumes from
// the constant stream, in emission order. Opcodes not listed here take no
// operand constants; LoadConstant, which is not listed, consumes one
// constant as the value it pushes rather than as an operand.
var OperandCounts = map[Code]int{
	LoadLocal:           1,
	PopLocal:            0,
	AssignLocal:         1,
	Dup:                 1,
	Jump:                2,
	JumpIfFalse:         2,
	Call:                2,
	NativeCall:          2,
	CheckType:           1,
	CreateList:          1,
	CreateRepeatingList: 1,
	AssertWithMessage:   1,
}

// BinaryOpType is the type tag operand of CheckType, as emitted for
// instanceof.
type BinaryOpType int

// instanceof type tags, per the Grace language's type-check builtin.
const (
	TypeBool   BinaryOpType = 0
	TypeChar   BinaryOpType = 1
	TypeFloat  BinaryOpType = 2
	TypeInt    BinaryOpType = 3
	TypeNull   BinaryOpType = 4
	TypeString BinaryOpType = 5
	TypeList   BinaryOpType = 6
)
