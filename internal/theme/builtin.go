package theme

// Built-in themes. dark mirrors the "equilux" widget palette and light the
// "arc" palette.
var builtins = []Spec{
	{
		Name: "dark",
		Base: "equilux",
		Colors: map[string]string{
			MenuFG:       "#a6a6a6",
			MenuBG:       "#464646",
			MenuActiveFG: "#a6a6a6",
			MenuActiveBG: "#2367ce",
			DocFG:        "#a6a6a6",
			DocBG:        "#2b2b2b",
			DocSelectFG:  "#a6a6a6",
			DocSelectBG:  "#1a4991",
			DocCursor:    "#ffffff",
		},
	},
	{
		Name:     "light",
		Inherits: "dark",
		Base:     "arc",
		Colors: map[string]string{
			MenuFG:       "#5c616c",
			MenuBG:       "#e7e8eb",
			MenuActiveFG: "#ffffff",
			MenuActiveBG: "#5294e2",
			DocFG:        "#5c616c",
			DocBG:        "#f5f6f7",
			DocSelectFG:  "#ffffff",
			DocSelectBG:  "#5294e2",
			DocCursor:    "#2f343f",
			DocColumn:    "#a9caf1",
		},
	},
}
