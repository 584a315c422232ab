package model

// CoverArt is a volume cover of a manga.
type CoverArt struct {
	MangaID  string
	Volume   string
	FileName string
}

// RemotePath is the path of the cover on the uploads server.
func (c CoverArt) RemotePath() string {
	return "/covers/" + c.MangaID + "/" + c.FileName
}

// VolumeLabel returns "Volume N" for numeric volumes and the raw value
// otherwise.
func (c CoverArt) VolumeLabel() string {
	return numberLabel("Volume", c.Volume)
}
