package dictionary

// Built-in dictionary for the SINAN/SIVEP hospitalized SARI schema
// (reference document of 19/09/2022). Used when no dictionary file is given.

func cat(name string, pairs ...string) *Field {
	f := &Field{Name: name, Kind: Categorical}
	for i := 0; i+1 < len(pairs); i += 2 {
		f.Codes = append(f.Codes, Code{Value: pairs[i], Label: pairs[i+1]})
	}
	return f
}

func yn(name string) *Field {
	return cat(name, "1", "Sim", "2", "Não")
}

func yn9(name string) *Field {
	return cat(name, "1", "Sim", "2", "Não", "9", "Ignorado")
}

func date(name string) *Field    { return &Field{Name: name, Kind: Date} }
func num(name string) *Field     { return &Field{Name: name, Kind: Numeric} }
func text(name string) *Field    { return &Field{Name: name, Kind: Text} }
func dates(names ...string) []*Field {
	out := make([]*Field, len(names))
	for i, n := range names {
		out[i] = date(n)
	}
	return out
}
func texts(names ...string) []*Field {
	out := make([]*Field, len(names))
	for i, n := range names {
		out[i] = text(n)
	}
	return out
}

// Default returns the built-in SARI dictionary. It is rebuilt on each call so
// callers can never mutate shared state.
func Default() *Dictionary {
	var fields []*Field
	add := func(fs ...*Field) { fields = append(fields, fs...) }

	// Identification and notification
	add(text("NU_NOTIFIC"), date("DT_NOTIFIC"), num("SEM_NOT"), date("DT_SIN_PRI"),
		num("SEM_PRI"), text("SG_UF_NOT"))

	// Patient
	add(yn("TEM_CPF"), yn("ESTRANG"))
	add(texts("NU_CPF", "NU_CNS", "NM_PACIENT")...)
	add(cat("CS_SEXO", "1", "Masculino", "2", "Feminino", "9", "Ignorado"))
	add(date("DT_NASC"), num("NU_IDADE_N"))
	add(cat("TP_IDADE", "1", "Dia", "2", "Mês", "3", "Ano"))
	add(cat("CS_GESTANT",
		"1", "1º Trimestre", "2", "2º Trimestre", "3", "3º Trimestre",
		"4", "Idade Gestacional Ignorada", "5", "Não", "6", "Não se aplica", "9", "Ignorado"))
	add(cat("CS_RACA",
		"1", "Branca", "2", "Preta", "3", "Amarela", "4", "Parda", "5", "Indígena", "9", "Ignorado"))
	add(text("CS_ETINIA"), yn("POV_CT"), text("TP_POV_CT"))
	add(cat("CS_ESCOL_N",
		"0", "Sem escolaridade/Analfabeto",
		"1", "Fundamental 1º ciclo (1ª a 5ª série)",
		"2", "Fundamental 2º ciclo (6ª a 9ª série)",
		"3", "Médio (1º ao 3º ano)",
		"4", "Superior",
		"5", "Não se aplica",
		"9", "Ignorado"))
	add(texts("PAC_COCBO", "NM_MAE_PAC", "NU_CEP", "SG_UF", "ID_MN_RESI", "NM_BAIRRO",
		"NM_LOGRADO", "NU_NUMERO", "NM_COMPLEM", "NU_DDD_TEL", "NU_TELEFON")...)
	add(cat("CS_ZONA", "1", "Urbana", "2", "Rural", "3", "Periurbana", "9", "Ignorado"))
	add(text("ID_PAIS"))

	// Exposure
	add(yn9("NOSOCOMIAL"), yn9("AVE_SUINO"), text("OUT_ANIM"))

	// Signs and symptoms
	for _, n := range []string{
		"FEBRE", "TOSSE", "GARGANTA", "DISPNEIA", "DESC_RESP", "SATURACAO",
		"DIARREIA", "VOMITO", "DOR_ABD", "FADIGA", "PERD_OLFT", "PERD_PALA", "OUTRO_SIN",
	} {
		add(yn9(n))
	}
	add(text("OUTRO_DES"))

	// Risk factors
	for _, n := range []string{
		"FATOR_RISC", "PUERPERA", "CARDIOPATI", "HEMATOLOGI", "SIND_DOWN",
		"HEPATICA", "ASMA", "DIABETES", "NEUROLOGIC", "PNEUMOPATI",
		"IMUNODEPRE", "RENAL", "OBESIDADE",
	} {
		add(yn9(n))
	}
	add(num("OBES_IMC"))

	// Vaccination and treatment
	add(yn9("VACINA_COV"))
	add(dates("DOSE_1_COV", "DOSE_2_COV", "DOSE_REF")...)
	add(texts("FAB_COV1", "FAB_COV2", "FAB_COVRF", "FAB_COVRF2")...)
	add(yn9("ANTIVIRAL"))
	add(cat("TP_ANTIVIR", "1", "Oseltamivir", "2", "Zanamivir", "3", "Outro"))
	add(yn9("TRAT_COV"))
	add(cat("TIPO_TRAT",
		"1", "Nirmatrevir/ritonavir (Paxlovid)",
		"2", "Molnupiravir (Lagevrio)",
		"3", "Baricitinibe (Olumiant)",
		"4", "Outro, especifique"))

	// Hospitalization, ICU, imaging
	add(yn9("HOSPITAL"), date("DT_INTERNA"))
	add(texts("SG_UF_INTE", "ID_RG_INTE", "ID_MN_INTE", "ID_UN_INTE")...)
	add(yn9("UTI"), date("DT_ENTUTI"), date("DT_SAIDUTI"))
	add(cat("SUPORT_VEN", "1", "Sim, invasivo", "2", "Sim, não invasivo", "3", "Não", "9", "Ignorado"))
	add(cat("RAIOX_RES",
		"1", "Normal", "2", "Infiltrado intersticial", "3", "Consolidação",
		"4", "Misto", "5", "Outro", "6", "Não realizado", "9", "Ignorado"))
	add(text("RAIOX_OUT"), date("DT_RAIOX"))
	add(cat("TOMO_RES",
		"1", "Típico COVID-19", "2", "Indeterminado COVID-19",
		"3", "Atípico COVID-19", "4", "Negativo para Pneumonia",
		"5", "Outro", "6", "Não realizado", "9", "Ignorado"))
	add(text("TOMO_OUT"), date("DT_TOMO"))

	// Diagnostics
	add(yn9("AMOSTRA"), date("DT_COLETA"))
	add(cat("TP_AMOSTRA",
		"1", "Secreção de Nasoorofaringe", "2", "Lavado Broco-alveolar",
		"3", "Tecido post-mortem", "4", "Outra, qual?", "5", "LCR", "9", "Ignorado"))
	add(text("OUT_AMOST"), text("REQUI_GAL"))
	add(cat("TP_TES_AN", "1", "Imunofluorescência (IF)", "2", "Teste rápido antigênico"))
	add(date("DT_RES_AN"))
	add(cat("RES_AN",
		"1", "Positivo", "2", "Negativo", "3", "Inconclusivo",
		"4", "Não realizado", "5", "Aguardando resultado", "9", "Ignorado"))
	add(text("LAB_AN"), text("CO_LAB_AN"))
	add(yn9("POS_AN_FLU"))
	add(cat("TP_FLU_AN", "1", "Influenza A", "2", "Influenza B"))
	add(cat("PCR_RESUL",
		"1", "Detectável", "2", "Não Detectável", "3", "Inconclusivo",
		"4", "Não realizado", "5", "Aguardando Resultado", "9", "Ignorado"))
	add(yn9("POS_PCRFLU"))
	add(cat("TP_FLU_PCR", "1", "Influenza A", "2", "Influenza B"))
	add(date("DT_PCR"))
	add(cat("TP_AM_SOR", "1", "Teste rápido", "2", "Elisa", "3", "Quimiluminescência", "4", "Outro, especifique"))
	add(text("SOR_OUT"), date("DT_CO_SOR"))
	add(cat("RES_IGG", "1", "Positivo", "2", "Negativo"))
	add(cat("RES_IGM", "1", "Positivo", "2", "Negativo"))
	add(cat("RES_IGA", "1", "Positivo", "2", "Negativo"))
	add(date("DT_RES"))

	// Conclusion
	add(cat("CLASSI_FIN",
		"1", "SRAG por influenza", "2", "SRAG por outro vírus respiratório",
		"3", "SRAG por outro agente etiológico", "4", "SRAG não especificado",
		"5", "SRAG por covid-19"))
	add(text("CLASSI_OUT"))
	add(cat("CRITERIO", "1", "Laboratorial", "2", "Clínico Epidemiológico", "3", "Clínico", "4", "Clínico Imagem"))
	add(cat("EVOLUCAO", "1", "Cura", "2", "Óbito", "3", "Óbito por outras causas", "9", "Ignorado"))
	add(dates("DT_EVOLUCA", "DT_ENCERRA")...)
	add(texts("NU_DO", "OBSERVA", "NOME_PROF", "REG_PROF")...)
	add(date("DT_DIGITA"))

	d, err := build(fields)
	if err != nil {
		// The built-in table is static; a failure here is a programming error.
		panic(err)
	}
	return d
}
