package main

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/bibliotecaonline/biblioteca-server/internal/catalog"
)

func statsLine(st catalog.Stats) string {
	return fmt.Sprintf("%d livros · %d autores · %d gêneros", st.Total, st.Authors, st.Genres)
}

// printView writes the cards, the pager line and the stats line.
func printView(w io.Writer, v catalog.View) {
	if v.Empty {
		fmt.Fprintln(w, "Nenhum livro encontrado.")
		fmt.Fprintln(w, "Tente ajustar os filtros ou a busca.")
	}

	for _, c := range v.Cards {
		fmt.Fprintf(w, "[%d] %s\n", c.ID, c.Title)
		fmt.Fprintf(w, "    %s · %d · %s · ★ %s · %d páginas\n", c.Author, c.Year, c.GenreLabel, c.Rating, c.Pages)
		if c.Excerpt != "" {
			fmt.Fprintf(w, "    %s\n", c.Excerpt)
		}
	}

	if line := pagerLine(v.Pager); line != "" {
		fmt.Fprintln(w)
		fmt.Fprintln(w, line)
	}
	fmt.Fprintln(w)
	fmt.Fprintln(w, statsLine(v.Stats))
}

// pagerLine renders the pager as "‹ 1 [2] 3 … 9 ›". Disabled arrows are dropped and
// a hidden pager renders as "".
func pagerLine(p catalog.PagerModel) string {
	if p.Hidden {
		return ""
	}

	parts := make([]string, 0, len(p.Items)+2)
	if !p.Prev.Disabled {
		parts = append(parts, "‹")
	}
	for _, item := range p.Items {
		switch item.Kind {
		case catalog.ControlEllipsis:
			parts = append(parts, "…")
		case catalog.ControlPage:
			label := strconv.Itoa(item.Page)
			if item.Active {
				label = "[" + label + "]"
			}
			parts = append(parts, label)
		}
	}
	if !p.Next.Disabled {
		parts = append(parts, "›")
	}
	return strings.Join(parts, " ")
}
