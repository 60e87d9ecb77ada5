package variant

// predefinedParts lists the canonical combinations in display-id order.
var predefinedParts = [...][3]int{
	{7, 1, 7},   // stripey orange gray
	{6, 7, 7},   // flopper gray gray
	{6, 7, 11},  // flopper gray blue
	{11, 0, 7},  // clayfish white gray
	{1, 11, 7},  // sunstreak blue gray
	{0, 1, 0},   // kob orange white
	{5, 6, 3},   // spotty pink light_blue
	{9, 10, 4},  // blockfish purple yellow
	{11, 0, 14}, // clayfish white red
	{5, 0, 4},   // spotty white yellow
	{8, 0, 7},   // glitter white gray
	{11, 0, 1},  // clayfish white orange
	{3, 9, 6},   // dasher cyan pink
	{4, 5, 3},   // brinely lime light_blue
	{10, 14, 0}, // betty red white
	{2, 7, 14},  // snooper gray red
	{9, 14, 0},  // blockfish red white
	{6, 0, 4},   // flopper white yellow
	{0, 14, 0},  // kob red white
	{1, 7, 0},   // sunstreak gray white
	{3, 9, 4},   // dasher cyan yellow
	{6, 4, 4},   // flopper yellow yellow
}

var predefined = buildPredefined()

func buildPredefined() map[Packed]int {
	out := make(map[Packed]int, len(predefinedParts))
	for id, p := range predefinedParts {
		out[Pack(p[0], p[1], p[2])] = id
	}
	return out
}

// PredefinedID returns the canonical display id for v, if it has one.
func PredefinedID(v Packed) (int, bool) {
	id, ok := predefined[v]
	return id, ok
}

// PredefinedCount is the size of the canonical table.
func PredefinedCount() int {
	return len(predefinedParts)
}
