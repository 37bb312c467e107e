package histogram

import "fmt"

// TileSize returns the side lengths of one tile when a width x height image
// is split into grid x grid tiles. Sizes are floored; rows and columns left
// over at the bottom and right edges belong to no tile.
func TileSize(width, height, grid int) (tileW, tileH int, err error) {
	if grid < 1 {
		return 0, 0, &ValidationError{
			Context: "grid",
			Field:   "grid_count",
			Value:   grid,
			Reason:  "must be positive",
		}
	}

	tileW, tileH = width/grid, height/grid
	if tileW == 0 || tileH == 0 {
		return 0, 0, &ValidationError{
			Context: "grid",
			Field:   "grid_count",
			Value:   grid,
			Reason:  fmt.Sprintf("larger than image side %dx%d", width, height),
		}
	}

	return tileW, tileH, nil
}

// CheckGridDivides reports a ValidationError when grid does not split both
// sides of img evenly, i.e. when tiling would drop edge pixels.
func CheckGridDivides(img *Image, grid int) error {
	if err := validateImage(img, "CheckGridDivides"); err != nil {
		return err
	}
	if grid < 1 {
		return nil
	}
	if img.Height%grid != 0 || img.Width%grid != 0 {
		return &ValidationError{
			Context: "grid",
			Field:   "grid_count",
			Value:   grid,
			Reason:  fmt.Sprintf("does not divide image side %dx%d", img.Width, img.Height),
		}
	}
	return nil
}
